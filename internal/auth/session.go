package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/swasthsathi/telehealth-service/internal/models"
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "telehealth_session"

const sessionKeyPrefix = "session:"

var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
)

// Identity is the authenticated caller attached to each request. Every
// operation receives it explicitly; nothing reads session state ambiently.
type Identity struct {
	UserID uint            `json:"user_id"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
}

// SessionManager stores session records in Redis and hands clients a signed
// token referencing the record. Revocation is a Redis delete; the token alone
// grants nothing once the record is gone.
type SessionManager struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

func NewSessionManager(client *redis.Client, secret string, ttl time.Duration, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		client: client,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Create opens a session for the identity and returns the signed cookie token.
func (m *SessionManager) Create(ctx context.Context, identity Identity) (string, error) {
	sessionID := uuid.New().String()

	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	if err := m.client.Set(ctx, sessionKeyPrefix+sessionID, payload, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Resolve validates the token, loads the session record and slides its
// expiry. A missing record means the session was revoked or timed out.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*Identity, error) {
	sessionID, err := m.parseSessionID(token)
	if err != nil {
		return nil, err
	}

	key := sessionKeyPrefix + sessionID
	payload, err := m.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if err := m.client.Expire(ctx, key, m.ttl).Err(); err != nil {
		m.logger.Warn("failed to renew session TTL", "error", err)
	}

	return &identity, nil
}

// Destroy revokes the session referenced by the token. Invalid tokens are
// treated as already logged out.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	sessionID, err := m.parseSessionID(token)
	if err != nil {
		return nil
	}
	if err := m.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (m *SessionManager) parseSessionID(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
