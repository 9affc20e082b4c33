package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/db/repositories"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/models/entities"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

type MemberService struct {
	db      *gorm.DB
	members *repositories.MemberRepository
	users   *repositories.UserRepositoryGORM
}

func NewMemberService(db *gorm.DB, members *repositories.MemberRepository, users *repositories.UserRepositoryGORM) *MemberService {
	return &MemberService{db: db, members: members, users: users}
}

func (s *MemberService) List(ctx context.Context, filter dtos.MemberListFilter) (*dtos.ListResponse[gormModels.Member], error) {
	items, total, err := s.members.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dtos.ListResponse[gormModels.Member]{Items: items, Total: total}, nil
}

func (s *MemberService) Get(ctx context.Context, id uint) (*gormModels.Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, ErrNotFound
	}
	return m, err
}

func (s *MemberService) Duplicates(ctx context.Context) ([]entities.DuplicateMemberID, error) {
	return s.members.Duplicates(ctx)
}

func (s *MemberService) Create(ctx context.Context, req dtos.MemberRequest) (*gormModels.Member, error) {
	member, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	return s.members.GetByID(ctx, member.ID)
}

func (s *MemberService) Update(ctx context.Context, id uint, req dtos.MemberRequest) (*gormModels.Member, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	member, err := s.fromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	member.ID = id
	if err := s.members.Update(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.members.GetByID(ctx, id)
}

func (s *MemberService) Delete(ctx context.Context, id uint) error {
	err := s.members.Delete(ctx, id)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return ErrNotFound
	}
	return err
}

// fromRequest checks the references a member row points at.
func (s *MemberService) fromRequest(ctx context.Context, req dtos.MemberRequest) (*gormModels.Member, error) {
	member := &gormModels.Member{
		MemberID:     strings.TrimSpace(req.MemberID),
		Name:         strings.TrimSpace(req.Name),
		ClassesCount: req.ClassesCount,
		LevelID:      req.LevelID,
		CoachID:      req.CoachID,
	}
	if member.MemberID == "" {
		return nil, common.NewValidationError("member_id", "this field is required")
	}
	if member.Name == "" {
		return nil, common.NewValidationError("name", "this field is required")
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
	if req.CoachID != nil {
		ok, err := s.users.IsCoach(ctx, *req.CoachID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.NewValidationError("coach_id", "user does not exist or is not a coach")
		}
	}
	return member, nil
}
