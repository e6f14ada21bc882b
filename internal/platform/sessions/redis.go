package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkfolio/internal/common"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store keeps the session-ID-to-user mapping in Redis. The browser never
// sees a user ID, only a signed token holding the session ID; destroying
// the Redis entry logs the user out everywhere immediately.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect dials Redis and verifies the connection.
func Connect(addr, password string, db int, ttl time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Store{rdb: rdb, ttl: ttl}, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// Create establishes a new session for userID and returns its ID.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+sid, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("sessions.Create: %w", err)
	}
	return sid, nil
}

// Lookup resolves a session ID to the user it belongs to. A missing or
// expired session reports ErrUnauthorized.
func (s *Store) Lookup(ctx context.Context, sid string) (string, error) {
	userID, err := s.rdb.Get(ctx, keyPrefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("sessions.Lookup: %w", err)
	}
	return userID, nil
}

// Destroy removes the session. Destroying an absent session is not an error.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("sessions.Destroy: %w", err)
	}
	return nil
}
