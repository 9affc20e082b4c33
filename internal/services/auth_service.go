package services

import (
	"context"
	"fmt"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/models/dtos"
)

// AuthService turns credentials into a signed session token.
type AuthService struct {
	users    *UserService
	sessions *common.SessionService
	signer   *common.TokenSigner
}

func NewAuthService(users *UserService, sessions *common.SessionService, signer *common.TokenSigner) *AuthService {
	return &AuthService{users: users, sessions: sessions, signer: signer}
}

// Login returns the token for the session cookie and the logged-in user.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (string, *dtos.LoginResponse, error) {
	user, err := s.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		logging.Warn("Login failed", "username", req.Username)
		return "", nil, err
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	session, err := s.sessions.CreateSession(ctx, user.ID, user.Username, email, user.Role)
	if err != nil {
		return "", nil, err
	}

	token, err := s.signer.Sign(session.SessionID, session.ExpiresAt)
	if err != nil {
		_ = s.sessions.DeleteSession(ctx, session.SessionID)
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}

	logging.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return token, &dtos.LoginResponse{
		User: dtos.SessionUserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    email,
			Role:     string(user.Role),
		},
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}
