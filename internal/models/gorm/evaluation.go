package gorm

import (
	"time"

	"trainingorg/quizdesk/internal/constants"
)

// Evaluation is a coach's assessment of a member, optionally proposing a move
// to LevelID. It stays pending until a coach or admin reviews it.
type Evaluation struct {
	ID            uint                       `gorm:"column:id;primaryKey" json:"id"`
	MemberID      uint                       `gorm:"column:member_id;not null;index" json:"member_id"`
	CoachID       *uint                      `gorm:"column:coach_id;index" json:"coach_id"`
	LevelID       *uint                      `gorm:"column:level_id" json:"level_id"`
	Notes         string                     `gorm:"column:notes" json:"notes"`
	Status        constants.EvaluationStatus `gorm:"column:status;type:varchar(20);not null" json:"status"`
	ReviewedBy    *uint                      `gorm:"column:reviewed_by" json:"reviewed_by"`
	ReviewComment string                     `gorm:"column:review_comment" json:"review_comment"`
	ReviewedAt    *time.Time                 `gorm:"column:reviewed_at" json:"reviewed_at"`
	CreatedAt     time.Time                  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Member *Member    `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Coach  *User      `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
	Level  *QuizLevel `gorm:"foreignKey:LevelID" json:"level,omitempty"`
}

// TableName specifies the table name for GORM
func (Evaluation) TableName() string {
	return "evaluations"
}
