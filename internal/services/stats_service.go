package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

type StatsService struct {
	db      *gorm.DB
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry
}

func NewStatsService(db *gorm.DB, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *StatsService {
	return &StatsService{db: db, cache: cache, metrics: metricsReg}
}

// Get returns cached dashboard counts, computing them on a cold cache.
func (s *StatsService) Get(ctx context.Context) (*dtos.DashboardStats, error) {
	stats, hit, err := common.GetOrLoad(ctx, s.cache, string(constants.CachePrefixStats), constants.StatsCacheTTL, s.compute)
	if err != nil {
		return nil, err
	}
	s.metrics.CacheLookup(string(constants.CachePrefixStats), hit)
	return stats, nil
}

// Refresh recomputes the counts and overwrites the cache entry.
func (s *StatsService) Refresh(ctx context.Context) error {
	start := time.Now()
	stats, err := s.compute(ctx)
	if err != nil {
		return err
	}
	s.metrics.ObserveStatsRefresh(time.Since(start).Seconds())
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, string(constants.CachePrefixStats), stats, constants.StatsCacheTTL)
}

func (s *StatsService) compute(ctx context.Context) (*dtos.DashboardStats, error) {
	stats := &dtos.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(model any, dest *int64, where ...any) {
		g.Go(func() error {
			q := s.db.WithContext(gctx).Model(model)
			if len(where) > 0 {
				q = q.Where(where[0], where[1:]...)
			}
			return q.Count(dest).Error
		})
	}

	count(&gormModels.Member{}, &stats.Members)
	count(&gormModels.QuizLevel{}, &stats.QuizLevels)
	count(&gormModels.Quiz{}, &stats.Quizzes)
	count(&gormModels.Evaluation{}, &stats.PendingEvaluations, "status = ?", constants.EvaluationPending)
	count(&gormModels.QuizAttempt{}, &stats.Attempts)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	stats.GeneratedAt = time.Now().UTC()
	return stats, nil
}
