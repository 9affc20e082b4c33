package dtos

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64,alphanum_"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"display_name" validate:"max=100"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Role        string `json:"role" validate:"required,oneof=admin coach student"`
}

type MemberRequest struct {
	MemberID     string `json:"member_id" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=200"`
	LevelID      *uint  `json:"level_id"`
	ClassesCount int    `json:"classes_count" validate:"min=0"`
	CoachID      *uint  `json:"coach_id"`
}

// MemberListFilter carries the query string of GET /api/members.
type MemberListFilter struct {
	Query   string
	LevelID *uint
	CoachID *uint
	Sort    string
	Order   string
	Limit   int
	Offset  int
}

type QuizLevelRequest struct {
	Code        string `json:"code" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	SortOrder   int    `json:"sort_order"`
}

type QuizRequest struct {
	LevelID          *uint             `json:"level_id"`
	Title            string            `json:"title" validate:"required,max=200"`
	Description      string            `json:"description" validate:"max=2000"`
	PassingScore     *int              `json:"passing_score" validate:"omitempty,min=0,max=100"`
	TimeLimitMinutes *int              `json:"time_limit_minutes" validate:"omitempty,min=1"`
	IsPublished      bool              `json:"is_published"`
	Questions        []QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

type QuestionRequest struct {
	Prompt  string          `json:"prompt" validate:"required,max=2000"`
	Options []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

type OptionRequest struct {
	Text      string `json:"text" validate:"required,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizListFilter struct {
	LevelID       *uint
	PublishedOnly bool
}

type SubmitAttemptRequest struct {
	Answers []AttemptAnswer `json:"answers" validate:"required,dive"`
}

type AttemptAnswer struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	OptionIDs  []uint `json:"option_ids"`
}

type EvaluationRequest struct {
	MemberID uint   `json:"member_id" validate:"required"`
	CoachID  *uint  `json:"coach_id"`
	LevelID  *uint  `json:"level_id"`
	Notes    string `json:"notes" validate:"max=4000"`
}

type EvaluationListFilter struct {
	Status   string
	MemberID *uint
}

type ReviewRequest struct {
	Comment string `json:"comment" validate:"max=4000"`
}

type ClearTableRequest struct {
	Cascade bool `json:"cascade"`
}

type CreateTableRequest struct {
	Name    string             `json:"name" validate:"required"`
	Columns []ColumnDefinition `json:"columns" validate:"required,min=1,dive"`
}

type ColumnDefinition struct {
	Name       string  `json:"name" validate:"required"`
	Type       string  `json:"type" validate:"required"`
	Nullable   bool    `json:"nullable"`
	PrimaryKey bool    `json:"primary_key"`
	Unique     bool    `json:"unique"`
	Default    *string `json:"default"`
}

type SQLRequest struct {
	Query    string `json:"query" validate:"required"`
	ReadOnly bool   `json:"read_only"`
}
