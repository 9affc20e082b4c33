package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
)

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := NewTokenSigner([]byte("secret"))

	token, err := signer.Sign("session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestTokenSigner_RejectsForeignAndExpired(t *testing.T) {
	signer := NewTokenSigner([]byte("secret"))
	other := NewTokenSigner([]byte("other"))

	foreign, err := other.Sign("session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = signer.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := signer.Sign("session-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = signer.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = signer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionService_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(NewMemorySessionBackend(), time.Hour)

	session, err := svc.CreateSession(ctx, 7, "coach1", "c@example.com", constants.RoleCoach)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	got, err := svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, constants.RoleCoach, got.Role)

	require.NoError(t, svc.DeleteSession(ctx, session.SessionID))
	_, err = svc.GetSession(ctx, session.SessionID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestCacheService_GetOrLoad(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(time.Minute, time.Minute)

	calls := 0
	loader := func(context.Context) ([]dtos.SessionUserResponse, error) {
		calls++
		return []dtos.SessionUserResponse{{ID: 1, Username: "alice"}}, nil
	}

	first, hit, err := GetOrLoad(ctx, c, "users", time.Minute, loader)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := GetOrLoad(ctx, c, "users", time.Minute, loader)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	c.Delete(ctx, "users")
	_, hit, _ = GetOrLoad(ctx, c, "users", time.Minute, loader)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestValidator_TranslatesFieldErrors(t *testing.T) {
	v := NewValidator()

	err := v.Struct(dtos.CreateUserRequest{Username: "bad name", Password: "short", Role: "pilot"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, alphaNumUnderText, verr.Fields["username"])
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "role")

	assert.NoError(t, v.Struct(dtos.CreateUserRequest{
		Username: "coach_1", Password: "longenough", Role: "coach",
	}))
}

func TestValidator_RequiredMessage(t *testing.T) {
	v := NewValidator()

	err := v.Struct(dtos.LoginRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, requiredText, verr.Fields["username"])
}
