package middleware

import (
	"net/http"

	"trainingorg/quizdesk/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return RequireRoles(constants.RoleAdmin)
}
