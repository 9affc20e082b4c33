package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"trainingorg/quizdesk/internal/config"
	"trainingorg/quizdesk/internal/logging"
)

// NewRedisClient returns nil when no Redis host is configured.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		logging.Info("[Redis] REDIS_HOST not set, using in-process cache and sessions")
		return nil
	}

	logging.Info("[Redis] Initializing Redis client", "addr", cfg.Addr(), "db", cfg.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// The pool keeps retrying; health checks report the outage.
		logging.Error("[Redis] Failed to ping Redis", "error", err)
		return client
	}

	logging.Info("[Redis] Successfully connected to Redis")
	return client
}
