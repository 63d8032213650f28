package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MessageLimiter caps how many messages a user may send per window.
// Counters live in Redis so the limit holds across instances.
type MessageLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewMessageLimiter creates a limiter of 30 messages per minute
func NewMessageLimiter(redisClient *redis.Client) *MessageLimiter {
	return &MessageLimiter{
		redis:  redisClient,
		limit:  30,
		window: time.Minute,
	}
}

// Allow checks if user can send message
func (rl *MessageLimiter) Allow(ctx context.Context, userID uuid.UUID) bool {
	if rl == nil || rl.redis == nil {
		return true // No Redis, allow all
	}

	key := fmt.Sprintf("ratelimit:messages:%s", userID)

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return true // Fail open
	}

	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}

	return count <= int64(rl.limit)
}
