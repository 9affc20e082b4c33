package middleware

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
)

// RequireRoles must run after RequireAuth.
func RequireRoles(roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.GetSessionUser(r.Context())
			if user == nil {
				common.RespondError(w, time.Now(), nil, constants.MsgAuthRequired, http.StatusUnauthorized)
				return
			}
			if !user.HasRole(roles...) {
				common.RespondError(w, time.Now(), nil, constants.MsgPermissionDenied, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
