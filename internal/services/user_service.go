package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/db/repositories"
	"trainingorg/quizdesk/internal/models/dtos"
	gormModels "trainingorg/quizdesk/internal/models/gorm"
)

type UserService struct {
	userRepoGorm *repositories.UserRepositoryGORM
	bcryptCost   int
	// dummyHash is compared against for unknown usernames so both paths cost the same.
	dummyHash []byte
}

func NewUserService(repoGorm *repositories.UserRepositoryGORM, bcryptCost int) *UserService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("quizdesk-timing-equalizer"), bcryptCost)
	return &UserService{
		userRepoGorm: repoGorm,
		bcryptCost:   bcryptCost,
		dummyHash:    dummy,
	}
}

// Authenticate returns ErrInvalidCredentials for an unknown user or a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*gormModels.User, error) {
	user, err := s.userRepoGorm.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req dtos.CreateUserRequest) (*gormModels.User, error) {
	role := constants.Role(req.Role)
	if !role.IsValid() {
		return nil, common.NewValidationError("role", "must be one of admin coach student")
	}

	username := strings.TrimSpace(req.Username)
	if _, err := s.userRepoGorm.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username %q %w", username, ErrConflict)
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &gormModels.User{
		Username:     username,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         role,
		PasswordHash: string(hash),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}
	if err := s.userRepoGorm.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*gormModels.User, error) {
	user, err := s.userRepoGorm.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// List filters by role when role is non-empty.
func (s *UserService) List(ctx context.Context, role string) ([]gormModels.User, error) {
	if role == "" {
		return s.userRepoGorm.List(ctx)
	}
	r := constants.Role(role)
	if !r.IsValid() {
		return nil, common.NewValidationError("role", "must be one of admin coach student")
	}
	return s.userRepoGorm.List(ctx, r)
}

func (s *UserService) ListCoaches(ctx context.Context) ([]gormModels.User, error) {
	return s.userRepoGorm.List(ctx, constants.CoachRoles...)
}

// Delete refuses to remove the caller's own account.
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return common.NewValidationError("id", "you cannot delete your own account")
	}
	err := s.userRepoGorm.Delete(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrNotFound
	}
	return err
}
