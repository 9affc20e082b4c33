package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

type QuizLevelService struct {
	db      *gorm.DB
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry
}

func NewQuizLevelService(db *gorm.DB, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *QuizLevelService {
	return &QuizLevelService{db: db, cache: cache, metrics: metricsReg}
}

// List returns all levels ordered by sort_order, served from cache when warm.
func (s *QuizLevelService) List(ctx context.Context) ([]gormModels.QuizLevel, error) {
	levels, hit, err := common.GetOrLoad(ctx, s.cache, string(constants.CachePrefixQuizLevels), constants.QuizLevelsCacheTTL,
		func(ctx context.Context) ([]gormModels.QuizLevel, error) {
			var levels []gormModels.QuizLevel
			if err := s.db.WithContext(ctx).Order("sort_order").Order("code").Find(&levels).Error; err != nil {
				return nil, fmt.Errorf("failed to list quiz levels: %w", err)
			}
			return levels, nil
		})
	if err != nil {
		return nil, err
	}
	s.metrics.CacheLookup(string(constants.CachePrefixQuizLevels), hit)
	return levels, nil
}

func (s *QuizLevelService) Get(ctx context.Context, id uint) (*gormModels.QuizLevel, error) {
	var level gormModels.QuizLevel
	if err := s.db.WithContext(ctx).First(&level, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

func (s *QuizLevelService) Create(ctx context.Context, req dtos.QuizLevelRequest) (*gormModels.QuizLevel, error) {
	level := &gormModels.QuizLevel{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := s.ensureCodeFree(ctx, level.Code, 0); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(level).Error; err != nil {
		return nil, fmt.Errorf("failed to create quiz level: %w", err)
	}
	s.invalidate(ctx)
	return level, nil
}

func (s *QuizLevelService) Update(ctx context.Context, id uint, req dtos.QuizLevelRequest) (*gormModels.QuizLevel, error) {
	level, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeFree(ctx, code, id); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(level).
		Select("code", "name", "description", "sort_order", "updated_at").
		Updates(&gormModels.QuizLevel{
			Code:        code,
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			SortOrder:   req.SortOrder,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update quiz level: %w", err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes a level. Members and quizzes pointing at it keep a NULL level.
func (s *QuizLevelService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&gormModels.Member{}).Where("level_id = ?", id).Update("level_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&gormModels.Quiz{}).Where("level_id = ?", id).Update("level_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&gormModels.QuizLevel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *QuizLevelService) ensureCodeFree(ctx context.Context, code string, exceptID uint) error {
	var n int64
	q := s.db.WithContext(ctx).Model(&gormModels.QuizLevel{}).Where("code = ?", code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("quiz level %q %w", code, ErrConflict)
	}
	return nil
}

func (s *QuizLevelService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, string(constants.CachePrefixQuizLevels))
	}
}
