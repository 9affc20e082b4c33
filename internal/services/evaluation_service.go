package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/db/repositories"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/metrics"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

type EvaluationService struct {
	db      *gorm.DB
	users   *repositories.UserRepositoryGORM
	metrics *metrics.MetricsRegistry
}

func NewEvaluationService(db *gorm.DB, users *repositories.UserRepositoryGORM, metricsReg *metrics.MetricsRegistry) *EvaluationService {
	return &EvaluationService{db: db, users: users, metrics: metricsReg}
}

// Create opens a pending evaluation. Without an explicit coach it is assigned
// to the member's coach, then to the caller when the caller is a coach.
func (s *EvaluationService) Create(ctx context.Context, req dtos.EvaluationRequest, actor *auth.SessionUser) (*gormModels.Evaluation, error) {
	var member gormModels.Member
	if err := s.db.WithContext(ctx).First(&member, req.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewValidationError("member_id", "member does not exist")
		}
		return nil, err
	}

	coachID := req.CoachID
	if coachID != nil {
		ok, err := s.users.IsCoach(ctx, *coachID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.NewValidationError("coach_id", "user does not exist or is not a coach")
		}
	} else if member.CoachID != nil {
		coachID = member.CoachID
	} else if actor.Role == constants.RoleCoach {
		id := actor.ID
		coachID = &id
	}

	if req.LevelID != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&gormModels.QuizLevel{}).Where("id = ?", *req.LevelID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, common.NewValidationError("level_id", "quiz level does not exist")
		}
	}

	eval := &gormModels.Evaluation{
		MemberID: member.ID,
		CoachID:  coachID,
		LevelID:  req.LevelID,
		Notes:    strings.TrimSpace(req.Notes),
		Status:   constants.EvaluationPending,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(eval).Error; err != nil {
		return nil, fmt.Errorf("failed to create evaluation: %w", err)
	}

	logging.Info("Evaluation created", "evaluation_id", eval.ID, "member_id", member.ID, "created_by", actor.ID)
	return s.get(ctx, eval.ID)
}

// List scopes coaches to evaluations assigned to them; admins see everything.
func (s *EvaluationService) List(ctx context.Context, filter dtos.EvaluationListFilter, actor *auth.SessionUser) ([]gormModels.Evaluation, error) {
	q := s.db.WithContext(ctx).
		Preload("Member").Preload("Coach").Preload("Level").
		Order("created_at DESC").Order("id DESC")

	if filter.Status != "" {
		status := constants.EvaluationStatus(filter.Status)
		if !status.IsValid() {
			return nil, common.NewValidationError("status", "must be one of pending approved disapproved")
		}
		q = q.Where("status = ?", status)
	}
	if filter.MemberID != nil {
		q = q.Where("member_id = ?", *filter.MemberID)
	}
	if !actor.IsAdmin() {
		q = q.Where("coach_id = ?", actor.ID)
	}

	evals := []gormModels.Evaluation{}
	if err := q.Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

// Review approves or disapproves a pending evaluation. Approving one with a
// target level moves the member to that level in the same transaction.
func (s *EvaluationService) Review(ctx context.Context, id uint, decision constants.EvaluationStatus, comment string, actor *auth.SessionUser) (*gormModels.Evaluation, error) {
	comment = strings.TrimSpace(comment)
	if decision == constants.EvaluationDisapproved && comment == "" {
		return nil, common.NewValidationError("comment", constants.MsgReviewCommentNeeded)
	}
	if decision != constants.EvaluationApproved && decision != constants.EvaluationDisapproved {
		return nil, fmt.Errorf("invalid review decision %q", decision)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eval gormModels.Evaluation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&eval, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !actor.IsAdmin() && (eval.CoachID == nil || *eval.CoachID != actor.ID) {
			return ErrForbidden
		}
		if eval.Status != constants.EvaluationPending {
			return ErrEvaluationNotPending
		}

		now := time.Now()
		reviewer := actor.ID
		res := tx.Model(&gormModels.Evaluation{}).
			Where("id = ? AND status = ?", id, constants.EvaluationPending).
			Updates(map[string]any{
				"status":         decision,
				"reviewed_by":    reviewer,
				"review_comment": comment,
				"reviewed_at":    now,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEvaluationNotPending
		}

		if decision == constants.EvaluationApproved && eval.LevelID != nil {
			err := tx.Model(&gormModels.Member{}).
				Where("id = ?", eval.MemberID).
				Updates(map[string]any{"level_id": *eval.LevelID, "updated_at": now}).Error
			if err != nil {
				return fmt.Errorf("failed to move member to level: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.EvaluationReviewed(string(decision))
	logging.Info("Evaluation reviewed", "evaluation_id", id, "decision", decision, "reviewed_by", actor.ID)
	return s.get(ctx, id)
}

func (s *EvaluationService) get(ctx context.Context, id uint) (*gormModels.Evaluation, error) {
	var eval gormModels.Evaluation
	err := s.db.WithContext(ctx).Preload("Member").Preload("Coach").Preload("Level").First(&eval, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eval, nil
}
