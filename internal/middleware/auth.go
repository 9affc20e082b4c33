package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/logging"
)

// RequireAuth resolves the session from the session cookie, or from an
// "Authorization: Bearer" header for non-browser clients, and stores the
// SessionUser in the request context.
func RequireAuth(sessions *common.SessionService, signer *common.TokenSigner, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			token := tokenFromRequest(r, cookieName)
			if token == "" {
				common.RespondError(w, initTime, nil, constants.MsgAuthRequired, http.StatusUnauthorized)
				return
			}

			sessionID, err := signer.Verify(token)
			if err != nil {
				common.RespondError(w, initTime, nil, constants.MsgAuthRequired, http.StatusUnauthorized)
				return
			}

			session, err := sessions.GetSession(r.Context(), sessionID)
			if err != nil {
				if !errors.Is(err, common.ErrSessionNotFound) {
					logging.Error("Session lookup failed", "error", err)
				}
				common.RespondError(w, initTime, nil, constants.MsgAuthRequired, http.StatusUnauthorized)
				return
			}

			user := &auth.SessionUser{
				ID:        session.UserID,
				Username:  session.Username,
				Email:     session.Email,
				Role:      session.Role,
				SessionID: session.SessionID,
			}
			recordRequestUser(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(auth.SetSessionUser(r.Context(), user)))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
