package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/db/repositories"
	"trainingorg/quizdesk/internal/models/dtos"
)

func newUserService(t *testing.T) *UserService {
	db := setupTestDB(t)
	return NewUserService(repositories.NewUserRepositoryGORM(db), bcrypt.MinCost)
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, dtos.CreateUserRequest{
		Username: "coach1", Email: "c@example.com", Password: "correct-horse", Role: "coach",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	got, err := svc.Authenticate(ctx, "coach1", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "coach1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Create(ctx, dtos.CreateUserRequest{Username: "coach1", Password: "another-pass", Role: "coach"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_ListCoachesAndDelete(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	var ids []uint
	for _, r := range []string{"student", "coach", "admin"} {
		u, err := svc.Create(ctx, dtos.CreateUserRequest{Username: r + "1", Password: "password1", Role: r})
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}

	coaches, err := svc.ListCoaches(ctx)
	require.NoError(t, err)
	assert.Len(t, coaches, 2)

	students, err := svc.List(ctx, "student")
	require.NoError(t, err)
	assert.Len(t, students, 1)

	var verr *common.ValidationError
	assert.ErrorAs(t, svc.Delete(ctx, ids[2], ids[2]), &verr)
	require.NoError(t, svc.Delete(ctx, ids[0], ids[2]))
	assert.ErrorIs(t, svc.Delete(ctx, ids[0], ids[2]), ErrNotFound)
}

func TestAuthService_LoginCreatesVerifiableSession(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()
	_, err := users.Create(ctx, dtos.CreateUserRequest{Username: "alice", Password: "password1", Role: "student"})
	require.NoError(t, err)

	sessions := common.NewSessionService(common.NewMemorySessionBackend(), time.Hour)
	signer := common.NewTokenSigner([]byte("secret"))
	svc := NewAuthService(users, sessions, signer)

	token, resp, err := svc.Login(ctx, dtos.LoginRequest{Username: "alice", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)

	sessionID, err := signer.Verify(token)
	require.NoError(t, err)
	session, err := sessions.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, session.UserID)

	require.NoError(t, svc.Logout(ctx, sessionID))
	_, err = sessions.GetSession(ctx, sessionID)
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	_, _, err = svc.Login(ctx, dtos.LoginRequest{Username: "alice", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
