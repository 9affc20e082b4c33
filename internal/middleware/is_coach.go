package middleware

import (
	"net/http"

	"trainingorg/quizdesk/internal/constants"
)

// IsCoachMiddleware admits coaches and admins.
func IsCoachMiddleware() func(http.Handler) http.Handler {
	return RequireRoles(constants.CoachRoles...)
}
