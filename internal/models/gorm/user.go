package gorm

import (
	"time"

	"trainingorg/quizdesk/internal/constants"
)

type User struct {
	ID           uint           `gorm:"column:id;primaryKey" json:"id"`
	Username     string         `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        *string        `gorm:"column:email" json:"email,omitempty"`
	DisplayName  string         `gorm:"column:display_name" json:"display_name"`
	Role         constants.Role `gorm:"column:role;type:varchar(20);not null" json:"role"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
