package auth

import (
	"context"
)

type contextKey string

var sessionUserKey contextKey = "session_user"

func SetSessionUser(ctx context.Context, user *SessionUser) context.Context {
	return context.WithValue(ctx, sessionUserKey, user)
}

// GetSessionUser returns nil outside an authenticated route.
func GetSessionUser(ctx context.Context) *SessionUser {
	if user, ok := ctx.Value(sessionUserKey).(*SessionUser); ok {
		return user
	}
	return nil
}
