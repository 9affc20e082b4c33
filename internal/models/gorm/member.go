package gorm

import "time"

// Member is a person enrolled with the organization. MemberID is the business
// key printed on membership cards; it is not unique.
type Member struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	MemberID     string    `gorm:"column:member_id;not null;index" json:"member_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	LevelID      *uint     `gorm:"column:level_id" json:"level_id"`
	ClassesCount int       `gorm:"column:classes_count;not null;default:0" json:"classes_count"`
	CoachID      *uint     `gorm:"column:coach_id" json:"coach_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Level *QuizLevel `gorm:"foreignKey:LevelID" json:"level,omitempty"`
	Coach *User      `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
}

// TableName specifies the table name for GORM
func (Member) TableName() string {
	return "members"
}
