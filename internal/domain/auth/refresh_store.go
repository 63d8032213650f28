package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshStore remembers issued refresh tokens by hash so they can be
// rotated and revoked.
type RefreshStore interface {
	Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	// Consume deletes the token and returns its owner.
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Delete(ctx context.Context, tokenHash string) error
}

const refreshKeyPrefix = "refresh:"

type redisRefreshStore struct {
	client *redis.Client // nil if Redis disabled
}

// NewRedisRefreshStore stores refresh tokens as "refresh:<hash>" keys.
// With a nil client refresh tokens are never accepted.
func NewRedisRefreshStore(client *redis.Client) RefreshStore {
	return &redisRefreshStore{client: client}
}

func (s *redisRefreshStore) Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	return s.client.Set(ctx, refreshKeyPrefix+tokenHash, userID.String(), ttl).Err()
}

func (s *redisRefreshStore) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	if s.client == nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	val, err := s.client.GetDel(ctx, refreshKeyPrefix+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrInvalidRefreshToken
		}
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return id, nil
}

func (s *redisRefreshStore) Delete(ctx context.Context, tokenHash string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, refreshKeyPrefix+tokenHash).Err()
}
