// Package session issues login sessions as signed tokens backed by a Redis
// record, and carries per-session flash messages.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fund-tracker/models"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "session"

var ErrInvalidSession = errors.New("invalid or expired session")

// Session identifies one login.
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
}

type claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

type Manager struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(rdb *redis.Client, secret string, ttl time.Duration) *Manager {
	return &Manager{
		rdb:    rdb,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used to stamp and validate tokens.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func sessionKey(id string) string { return "session:" + id }
func flashKey(id string) string   { return "flash:" + id }

// Create starts a session for user and returns the signed token.
func (m *Manager) Create(ctx context.Context, user *models.User) (string, *Session, error) {
	now := m.now()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := m.rdb.Set(ctx, sessionKey(sess.ID), user.ID, m.ttl).Err(); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}
	return signed, sess, nil
}

// Verify checks the token signature and expiry and that the session has not
// been revoked.
func (m *Manager) Verify(ctx context.Context, tokenString string) (*Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if c.ID == "" {
		return nil, ErrInvalidSession
	}

	stored, err := m.rdb.Get(ctx, sessionKey(c.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if stored != strconv.FormatUint(uint64(c.UserID), 10) {
		return nil, ErrInvalidSession
	}

	sess := &Session{ID: c.ID, UserID: c.UserID}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	return sess, nil
}

// Revoke ends the session and drops its pending flashes.
func (m *Manager) Revoke(ctx context.Context, id string) error {
	return m.rdb.Del(ctx, sessionKey(id), flashKey(id)).Err()
}

// Flash queues a message to show on the session's next view.
func (m *Manager) Flash(ctx context.Context, id, message string) error {
	pipe := m.rdb.TxPipeline()
	pipe.RPush(ctx, flashKey(id), message)
	pipe.Expire(ctx, flashKey(id), m.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Flashes pops every queued message in the order they were added.
func (m *Manager) Flashes(ctx context.Context, id string) ([]string, error) {
	pipe := m.rdb.TxPipeline()
	lr := pipe.LRange(ctx, flashKey(id), 0, -1)
	pipe.Del(ctx, flashKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return lr.Val(), nil
}
