package dtos

import "time"

// APIResponse is the envelope every JSON endpoint except the member import uses.
type APIResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time,omitempty"`
	Data         any    `json:"data,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ImportResponse is the flat body returned by the member import endpoints.
type ImportResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	SuccessCount int      `json:"successCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors,omitempty"`
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type SessionUserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	User      SessionUserResponse `json:"user"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// QuizDetail is a quiz as shown to a reader. Correctness flags are nil for
// students taking the quiz.
type QuizDetail struct {
	ID               uint             `json:"id"`
	LevelID          *uint            `json:"level_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	PassingScore     int              `json:"passing_score"`
	TimeLimitMinutes *int             `json:"time_limit_minutes"`
	IsPublished      bool             `json:"is_published"`
	CreatedBy        *uint            `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	Questions        []QuestionDetail `json:"questions"`
}

type QuestionDetail struct {
	ID       uint           `json:"id"`
	Prompt   string         `json:"prompt"`
	Position int            `json:"position"`
	Options  []OptionDetail `json:"options"`
}

type OptionDetail struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

type AttemptResult struct {
	AttemptID    uint                   `json:"attempt_id"`
	QuizID       uint                   `json:"quiz_id"`
	Score        int                    `json:"score"`
	Total        int                    `json:"total"`
	Percentage   int                    `json:"percentage"`
	PassingScore int                    `json:"passing_score"`
	Passed       bool                   `json:"passed"`
	Questions    []QuestionAttemptState `json:"questions"`
	CreatedAt    time.Time              `json:"created_at"`
}

type QuestionAttemptState struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
	CorrectOptionIDs  []uint `json:"correct_option_ids"`
	IsCorrect         bool   `json:"is_correct"`
}

type DashboardStats struct {
	Members            int64     `json:"members"`
	QuizLevels         int64     `json:"quiz_levels"`
	Quizzes            int64     `json:"quizzes"`
	PendingEvaluations int64     `json:"pending_evaluations"`
	Attempts           int64     `json:"attempts"`
	GeneratedAt        time.Time `json:"generated_at"`
}
