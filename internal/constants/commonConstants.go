package constants

import "time"

type (
	CachePrefix      string
	EvaluationStatus string
)

const (
	CachePrefixQuizLevels CachePrefix = "QUIZ_LEVELS"
	CachePrefixStats      CachePrefix = "DASHBOARD_STATS"

	EvaluationPending     EvaluationStatus = "pending"
	EvaluationApproved    EvaluationStatus = "approved"
	EvaluationDisapproved EvaluationStatus = "disapproved"
)

func (s EvaluationStatus) IsValid() bool {
	switch s {
	case EvaluationPending, EvaluationApproved, EvaluationDisapproved:
		return true
	}
	return false
}

const (
	QuizLevelsCacheTTL = 5 * time.Minute
	StatsCacheTTL      = 10 * time.Minute

	DefaultPassingScore = 70

	DefaultListLimit = 100
	MaxListLimit     = 500

	DefaultAdminRowLimit = 50
	MaxAdminRowLimit     = 1000

	UnknownMemberName = "Unknown member"
)
