package repositories

import (
	"context"
	"errors"
	"fmt"

	"trainingorg/quizdesk/internal/constants"
	gormModels "trainingorg/quizdesk/internal/models/gorm"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

func (r *UserRepositoryGORM) Create(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryGORM) GetByID(ctx context.Context, id uint) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by exact username match
func (r *UserRepositoryGORM) GetByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// List returns users ordered by username, optionally restricted to roles.
func (r *UserRepositoryGORM) List(ctx context.Context, roles ...constants.Role) ([]gormModels.User, error) {
	var users []gormModels.User
	q := r.db.WithContext(ctx).Order("username")
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// IsCoach reports whether id belongs to a user allowed to coach members.
func (r *UserRepositoryGORM) IsCoach(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ? AND role IN ?", id, constants.CoachRoles).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check coach: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepositoryGORM) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
