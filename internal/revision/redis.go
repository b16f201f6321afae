package revision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// keyTTL outlives any realistic game; an idle room simply starts counting again.
const keyTTL = 12 * time.Hour

// RedisTracker keeps revisions in redis so every server instance sees the same counter.
type RedisTracker struct {
	client *redis.Client
}

func NewRedisTracker(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client}
}

func key(roomID uuid.UUID) string {
	return fmt.Sprintf("undercover:room:%s:rev", roomID)
}

func (t *RedisTracker) Bump(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var incr *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key(roomID))
		pipe.Expire(ctx, key(roomID), keyTTL)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (t *RedisTracker) Current(ctx context.Context, roomID uuid.UUID) (int64, error) {
	rev, err := t.client.Get(ctx, key(roomID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return rev, err
}

func (t *RedisTracker) Forget(ctx context.Context, roomID uuid.UUID) error {
	return t.client.Del(ctx, key(roomID)).Err()
}
