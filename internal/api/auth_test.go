package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/models/dtos"
	"trainingorg/quizdesk/internal/services"
)

type mockAuthenticator struct {
	loginFunc     func(ctx context.Context, req dtos.LoginRequest) (string, *dtos.LoginResponse, error)
	loggedOutWith string
}

func (m *mockAuthenticator) Login(ctx context.Context, req dtos.LoginRequest) (string, *dtos.LoginResponse, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAuthenticator) Logout(_ context.Context, sessionID string) error {
	m.loggedOutWith = sessionID
	return nil
}

var testCookie = CookieOptions{Name: "quizdesk_session", Secure: true}

func TestLoginHandler_SetsSessionCookie(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	authSvc := &mockAuthenticator{loginFunc: func(_ context.Context, req dtos.LoginRequest) (string, *dtos.LoginResponse, error) {
		return "signed-token", &dtos.LoginResponse{
			User:      dtos.SessionUserResponse{ID: 1, Username: req.Username, Role: "coach"},
			ExpiresAt: expires,
		}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"coach1","password":"pw"}`))
	rr := httptest.NewRecorder()
	LoginHandler(authSvc, common.NewValidator(), testCookie).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "quizdesk_session", cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestLoginHandler_Errors(t *testing.T) {
	authSvc := &mockAuthenticator{loginFunc: func(context.Context, dtos.LoginRequest) (string, *dtos.LoginResponse, error) {
		return "", nil, services.ErrInvalidCredentials
	}}
	h := LoginHandler(authSvc, common.NewValidator(), testCookie)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"a","password":"b"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Result().Cookies())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"a"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeMap(t, rr)
	assert.Equal(t, map[string]any{"password": "this field is required"}, body["data"])
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	authSvc := &mockAuthenticator{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(auth.SetSessionUser(req.Context(), &auth.SessionUser{ID: 1, SessionID: "sess-1"}))
	rr := httptest.NewRecorder()

	LogoutHandler(authSvc, testCookie).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sess-1", authSvc.loggedOutWith)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestMeHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	MeHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(auth.SetSessionUser(req.Context(), &auth.SessionUser{ID: 3, Username: "alice", Role: constants.RoleStudent}))
	rr = httptest.NewRecorder()
	MeHandler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	data := decodeMap(t, rr)["data"].(map[string]any)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "student", data["role"])
}
