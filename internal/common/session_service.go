package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"trainingorg/quizdesk/internal/constants"
	"trainingorg/quizdesk/internal/logging"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionData is what the server remembers about a logged-in user.
type SessionData struct {
	SessionID string         `json:"session_id"`
	UserID    uint           `json:"user_id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Role      constants.Role `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// SessionBackend persists serialized sessions with an expiry.
type SessionBackend interface {
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Load(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

// SessionService manages user sessions
type SessionService struct {
	backend SessionBackend
	ttl     time.Duration
}

func NewSessionService(backend SessionBackend, ttl time.Duration) *SessionService {
	return &SessionService{backend: backend, ttl: ttl}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// CreateSession stores a new session for the user and returns it.
func (s *SessionService) CreateSession(ctx context.Context, userID uint, username, email string, role constants.Role) (*SessionData, error) {
	now := time.Now()
	session := &SessionData{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.backend.Save(ctx, sessionKeyPrefix+session.SessionID, data, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	logging.Debug("[SessionService] Session created", "session_id", session.SessionID, "user_id", userID)
	return session, nil
}

// GetSession returns ErrSessionNotFound for unknown or expired sessions.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	data, err := s.backend.Load(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.DeleteSession(ctx, sessionID)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.backend.Remove(ctx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RedisSessionBackend stores sessions in Redis.
type RedisSessionBackend struct {
	client *redis.Client
}

func NewRedisSessionBackend(client *redis.Client) *RedisSessionBackend {
	return &RedisSessionBackend{client: client}
}

func (b *RedisSessionBackend) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, data, ttl).Err()
}

func (b *RedisSessionBackend) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return data, nil
}

func (b *RedisSessionBackend) Remove(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

// MemorySessionBackend keeps sessions in process. Sessions do not survive a
// restart and are not shared between instances.
type MemorySessionBackend struct {
	store *cache.Cache
}

func NewMemorySessionBackend() *MemorySessionBackend {
	return &MemorySessionBackend{store: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (b *MemorySessionBackend) Save(_ context.Context, key string, data []byte, ttl time.Duration) error {
	b.store.Set(key, data, ttl)
	return nil
}

func (b *MemorySessionBackend) Load(_ context.Context, key string) ([]byte, error) {
	val, ok := b.store.Get(key)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return val.([]byte), nil
}

func (b *MemorySessionBackend) Remove(_ context.Context, key string) error {
	b.store.Delete(key)
	return nil
}
