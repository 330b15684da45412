package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/farmacia-api/internal/application/auth"
)

var _ auth.OAuthStateStore = (*RedisStateStore)(nil)

const stateKeyPrefix = "oauth:state:"

// RedisStateStore guarda cada state con expiración; Consume lo borra al leerlo (GETDEL).
type RedisStateStore struct {
	rdb redis.Cmdable
}

// NewRedisStateStore construye el store sobre un cliente go-redis.
func NewRedisStateStore(rdb redis.Cmdable) *RedisStateStore {
	return &RedisStateStore{rdb: rdb}
}

func (s *RedisStateStore) Save(ctx context.Context, state, provider string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, stateKeyPrefix+state, provider, ttl).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (string, bool, error) {
	provider, err := s.rdb.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis getdel state: %w", err)
	}
	return provider, true, nil
}
