package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/models/entities"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler handles GET /healthCheck
//
// Postgres and Redis are pinged concurrently. Redis is omitted when it is not
// configured.
func HealthCheckHandler(db *sqlx.DB, redisClient *redis.Client, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		var (
			mu       sync.Mutex
			services = make(map[string]entities.ServiceStatus)
		)
		record := func(name, details string, start time.Time, err error) {
			st := entities.ServiceStatus{Status: "ok", Details: details, LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				st.Status = "down"
				st.Details = err.Error()
			}
			mu.Lock()
			services[name] = st
			mu.Unlock()
		}

		// Pings never fail the group so every service gets a status.
		var g errgroup.Group
		g.Go(func() error {
			start := time.Now()
			record("postgres", "Postgres connected", start, db.PingContext(ctx))
			return nil
		})
		if redisClient != nil {
			g.Go(func() error {
				start := time.Now()
				record("redis", "Redis connected", start, redisClient.Ping(ctx).Err())
				return nil
			})
		}
		_ = g.Wait()

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}

		now := time.Now()
		common.WriteJSON(w, code, entities.HealthCheckResponse{
			Status:    overallStatus,
			Services:  services,
			UpSince:   upSince,
			Uptime:    now.Sub(upSince).Round(time.Second).String(),
			CheckedAt: now,
		})
	}
}

func (h *Handlers) HealthCheck(upSince time.Time) http.HandlerFunc {
	return HealthCheckHandler(h.deps.DB, h.deps.Redis, upSince)
}
