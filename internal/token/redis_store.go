package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps one token pair per browser session in a Redis hash. The
// hash expires with the session so abandoned logins do not accumulate.
type RedisStore struct {
	rdb       *goredis.Client
	sessionID uuid.UUID
	ttl       time.Duration
}

// NewRedisStore creates a Store bound to one session.
func NewRedisStore(rdb *goredis.Client, sessionID uuid.UUID, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, sessionID: sessionID, ttl: ttl}
}

func (s *RedisStore) key() string {
	return "tokens:" + s.sessionID.String()
}

func (s *RedisStore) field(name string) (string, error) {
	ctx, cancel := opContext()
	defer cancel()

	val, err := s.rdb.HGet(ctx, s.key(), name).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return val, nil
}

func (s *RedisStore) Access() (string, error) {
	return s.field(KeyAccess)
}

func (s *RedisStore) Refresh() (string, error) {
	return s.field(KeyRefresh)
}

func (s *RedisStore) Save(access, refresh string) error {
	ctx, cancel := opContext()
	defer cancel()

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, s.key(), map[string]any{
		KeyAccess:  access,
		KeyRefresh: refresh,
	})
	pipe.Expire(ctx, s.key(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) SetAccess(access string) error {
	ctx, cancel := opContext()
	defer cancel()

	if err := s.rdb.HSet(ctx, s.key(), KeyAccess, access).Err(); err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear() error {
	ctx, cancel := opContext()
	defer cancel()

	if err := s.rdb.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// opContext bounds every Redis round trip. The Store interface carries no
// context because token reads happen inside the HTTP client hot path.
func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}
