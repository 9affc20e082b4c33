package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/services"
)

// SessionAuthenticator starts and ends sessions.
type SessionAuthenticator interface {
	Login(ctx context.Context, req dtos.LoginRequest) (string, *dtos.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// LoginHandler handles POST /api/auth/login
func LoginHandler(authSvc SessionAuthenticator, v *common.Validator, cookie CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.LoginRequest
		if err := decodeJSON(r, v, &req); err != nil {
			respondServiceError(w, initTime, err, constants.MsgInvalidRequestBody)
			return
		}

		token, resp, err := authSvc.Login(r.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				common.RespondError(w, initTime, nil, constants.MsgInvalidCredentials, http.StatusUnauthorized)
				return
			}
			respondServiceError(w, initTime, err, "Failed to log in")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    token,
			Path:     "/",
			Expires:  resp.ExpiresAt,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		common.RespondSuccess(w, initTime, "Logged in", resp)
	}
}

// LogoutHandler handles POST /api/auth/logout
func LogoutHandler(authSvc SessionAuthenticator, cookie CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user := auth.GetSessionUser(r.Context())
		if user == nil {
			common.RespondError(w, initTime, nil, constants.MsgAuthRequired, http.StatusUnauthorized)
			return
		}
		if err := authSvc.Logout(r.Context(), user.SessionID); err != nil {
			respondServiceError(w, initTime, err, "Failed to log out")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		common.RespondSuccess(w, initTime, "Logged out", nil)
	}
}

// MeHandler handles GET /api/auth/me
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user := auth.GetSessionUser(r.Context())
		if user == nil {
			common.RespondError(w, initTime, nil, constants.MsgAuthRequired, http.StatusUnauthorized)
			return
		}
		common.RespondSuccess(w, initTime, "Session user", dtos.SessionUserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role.String(),
		})
	}
}

func (h *Handlers) cookieOptions() CookieOptions {
	return CookieOptions{
		Name:   h.deps.Config.Session.CookieName,
		Secure: h.deps.Config.Session.CookieSecure,
	}
}

func (h *Handlers) Login() http.HandlerFunc {
	return LoginHandler(h.deps.Services.Auth, h.deps.Validator, h.cookieOptions())
}

func (h *Handlers) Logout() http.HandlerFunc {
	return LogoutHandler(h.deps.Services.Auth, h.cookieOptions())
}

func (h *Handlers) Me() http.HandlerFunc {
	return MeHandler()
}
