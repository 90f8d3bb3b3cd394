// Package session stores login sessions in Redis with a sliding absolute
// TTL. Tokens are opaque UUIDs handed to the browser as a cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kdm-dev/tubevault/internal/domain/repository"
)

// sessionKeyPrefix is the prefix for session keys in Redis.
const sessionKeyPrefix = "session:"

// Session is one authenticated login.
type Session struct {
	Token     string
	UserID    uuid.UUID
	Username  string
	CreatedAt time.Time
}

// sessionJSON is the JSON representation stored in Redis. An explicit
// struct keeps the wire shape independent of the Session type.
type sessionJSON struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// Store is a Redis-backed session store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store. ttl bounds how long a login stays
// valid.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Create issues a new session for a user and persists it.
func (s *Store) Create(ctx context.Context, userID uuid.UUID, username string) (*Session, error) {
	sess := &Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(sessionJSON{
		UserID:    sess.UserID.String(),
		Username:  sess.Username,
		CreatedAt: sess.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("serialize session: %w", err)
	}

	if err := s.client.Set(ctx, s.buildKey(sess.Token), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis set: %w", err)
	}
	return sess, nil
}

// Get resolves a token to its session.
// Returns repository.ErrSessionNotFound for unknown or expired tokens.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, s.buildKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var v sessionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("deserialize session: %w", err)
	}

	userID, err := uuid.Parse(v.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse user ID: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		Username:  v.Username,
		CreatedAt: createdAt,
	}, nil
}

// Delete revokes a session. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.buildKey(token)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// buildKey constructs the Redis key for a session token.
func (s *Store) buildKey(token string) string {
	return sessionKeyPrefix + token
}
