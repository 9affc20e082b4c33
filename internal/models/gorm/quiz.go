package gorm

import "time"

type Quiz struct {
	ID               uint      `gorm:"column:id;primaryKey" json:"id"`
	LevelID          *uint     `gorm:"column:level_id" json:"level_id"`
	Title            string    `gorm:"column:title;not null" json:"title"`
	Description      string    `gorm:"column:description" json:"description"`
	PassingScore     int       `gorm:"column:passing_score;not null" json:"passing_score"`
	TimeLimitMinutes *int      `gorm:"column:time_limit_minutes" json:"time_limit_minutes"`
	IsPublished      bool      `gorm:"column:is_published;not null" json:"is_published"`
	CreatedBy        *uint     `gorm:"column:created_by" json:"created_by"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Level     *QuizLevel     `gorm:"foreignKey:LevelID" json:"level,omitempty"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

// TableName specifies the table name for GORM
func (Quiz) TableName() string {
	return "quizzes"
}

type QuizQuestion struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	QuizID   uint   `gorm:"column:quiz_id;not null;index" json:"quiz_id"`
	Prompt   string `gorm:"column:prompt;not null" json:"prompt"`
	Position int    `gorm:"column:position;not null" json:"position"`

	Options []QuizOption `gorm:"foreignKey:QuestionID" json:"options"`
}

// TableName specifies the table name for GORM
func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

type QuizOption struct {
	ID         uint   `gorm:"column:id;primaryKey" json:"id"`
	QuestionID uint   `gorm:"column:question_id;not null;index" json:"question_id"`
	Text       string `gorm:"column:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"column:is_correct;not null" json:"is_correct"`
	Position   int    `gorm:"column:position;not null" json:"position"`
}

// TableName specifies the table name for GORM
func (QuizOption) TableName() string {
	return "quiz_options"
}

type QuizAttempt struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	QuizID     uint      `gorm:"column:quiz_id;not null;index" json:"quiz_id"`
	UserID     uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	Score      int       `gorm:"column:score;not null" json:"score"`
	Total      int       `gorm:"column:total;not null" json:"total"`
	Percentage int       `gorm:"column:percentage;not null" json:"percentage"`
	Passed     bool      `gorm:"column:passed;not null" json:"passed"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Answers []QuizAttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

// TableName specifies the table name for GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type QuizAttemptAnswer struct {
	ID                uint   `gorm:"column:id;primaryKey" json:"id"`
	AttemptID         uint   `gorm:"column:attempt_id;not null;index" json:"attempt_id"`
	QuestionID        uint   `gorm:"column:question_id;not null" json:"question_id"`
	SelectedOptionIDs []uint `gorm:"column:selected_option_ids;serializer:json" json:"selected_option_ids"`
	IsCorrect         bool   `gorm:"column:is_correct;not null" json:"is_correct"`
}

// TableName specifies the table name for GORM
func (QuizAttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}
