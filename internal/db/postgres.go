package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"trainingorg/quizdesk/internal/config"
	"trainingorg/quizdesk/internal/logging"
)

// InitPostgres opens the connection pool shared by sqlx and GORM. Postgres is
// often still starting when the container comes up, so connecting is retried.
func InitPostgres(cfg config.PostgresConfig) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < cfg.ConnectRetries; i++ {
		conn, err = sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			conn.SetMaxOpenConns(25)
			conn.SetMaxIdleConns(5)
			conn.SetConnMaxLifetime(30 * time.Minute)
			return conn, nil
		}
		logging.Warn("Postgres not ready, retrying", "attempt", i+1, "error", err.Error())
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", cfg.ConnectRetries, err)
}
