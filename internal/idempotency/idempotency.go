// Package idempotency makes "a charge is attempted at most once per token"
// operational. Charge-source tokens are single use upstream, the guard
// rejects a double submit before it ever reaches the charge API.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/frahmantamala/payment-integration/internal"
)

const (
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"

	defaultInProgressTTL = 90 * time.Second
	defaultCompletedTTL  = 24 * time.Hour
)

// Guard marks charge-source tokens as used. Begin reports true when the
// token was seen before; Complete pins a captured charge's token for the
// long expiry. Attempts that fail before capture leave the short-lived
// in-progress marker to lapse on its own.
type Guard interface {
	Begin(ctx context.Context, token string) (alreadyUsed bool, err error)
	Complete(ctx context.Context, token string) error
}

type RedisStore struct {
	client        *redis.Client
	inProgressTTL time.Duration
	completedTTL  time.Duration
}

func NewRedisStore(cfg internal.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	inProgressTTL := cfg.InProgressTTL
	if inProgressTTL <= 0 {
		inProgressTTL = defaultInProgressTTL
	}
	completedTTL := cfg.CompletedTTL
	if completedTTL <= 0 {
		completedTTL = defaultCompletedTTL
	}

	return &RedisStore{
		client:        client,
		inProgressTTL: inProgressTTL,
		completedTTL:  completedTTL,
	}
}

func (s *RedisStore) key(token string) string {
	return fmt.Sprintf("charge_token:%s", token)
}

// Begin atomically claims the token via SET NX. A claim that already exists,
// whether in progress or completed, is a duplicate.
func (s *RedisStore) Begin(ctx context.Context, token string) (bool, error) {
	set, err := s.client.SetNX(ctx, s.key(token), StatusInProgress, s.inProgressTTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX error: %w", err)
	}
	return !set, nil
}

func (s *RedisStore) Complete(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key(token), StatusCompleted, s.completedTTL).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
