package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"trainingorg/quizdesk/internal/api"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/config"
	"trainingorg/quizdesk/internal/db"
	"trainingorg/quizdesk/internal/jobs"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/routes"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Quizdesk starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One pool serves sqlx and GORM.
	sqlDB, err := db.InitPostgres(cfg.Postgres)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres", "error", err.Error())
	}
	defer sqlDB.Close()
	logging.Info("Connected to Postgres (sqlx)")

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, sqlDB.DB, "up"); err != nil {
			logging.Fatal("Failed to apply migrations", "error", err.Error())
		}
		logging.Info("Migrations applied")
	}

	pgDB, err := db.InitPostgresORM(sqlDB.DB, !cfg.IsProduction())
	if err != nil {
		logging.Fatal("Failed to initialize GORM", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	redisClient := common.NewRedisClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB.DB, "quizdesk"),
	)
	metricsReg := metrics.NewMetricsRegistry(reg)

	deps, err := api.InitDependencies(cfg, sqlDB, pgDB, redisClient, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}
	deps.Jobs = jobs.InitializeJobs(ctx, deps.Services.Stats, cfg.StatsRefreshInterval)

	upSince := time.Now()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.RegisterRoutes(deps, reg, upSince),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Error("Server failed", "error", err.Error())
		}
	case <-ctx.Done():
		logging.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := deps.Services.Cache.Close(); err != nil {
		logging.Warn("Failed to close cache", "error", err.Error())
	}
	logging.Info("Server stopped")
}
