package lock

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const lockKeyPrefix = "lock:inventory-service:"

// Deletes the key only if it still holds our token, so an expired lock that was
// taken over by another caller is never released by us.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	wait       time.Duration
	retryDelay time.Duration
	logger     logger.ZapLogger
}

// NewRedisLocker returns a locker that polls a busy key every retryDelay and
// gives up after wait, like LocalLocker. Zero wait polls until ctx ends.
func NewRedisLocker(client *redis.Client, ttl, wait, retryDelay time.Duration, log logger.ZapLogger) *RedisLocker {
	if retryDelay <= 0 {
		retryDelay = 10 * time.Millisecond
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		wait:       wait,
		retryDelay: retryDelay,
		logger:     log,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := lockKeyPrefix + key
	token := uuid.New().String()

	var deadline time.Time
	if r.wait > 0 {
		deadline = time.Now().Add(r.wait)
	}

	var lastErr error
	for {
		ok, err := r.client.SetNX(ctx, lockKey, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, apperror.Unavailable(ctx.Err())
			}
			r.logger.Error("failed to acquire lock redis error", zap.String("key", lockKey), zap.Error(err))
			lastErr = err
		} else {
			lastErr = nil
		}
		if ok {
			return func() { r.release(lockKey, token) }, nil
		}

		if !deadline.IsZero() && time.Now().Add(r.retryDelay).After(deadline) {
			break
		}
		t := time.NewTimer(r.retryDelay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, apperror.Unavailable(ctx.Err())
		}
	}

	if lastErr != nil {
		return nil, apperror.Unavailable(lastErr)
	}
	return nil, apperror.Conflictf("%s is being modified, try again", key)
}

func (r *RedisLocker) release(lockKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, r.client, []string{lockKey}, token).Err(); err != nil {
		r.logger.Warn("failed to release lock", zap.String("key", lockKey), zap.Error(err))
	}
}
