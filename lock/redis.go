package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lease lock shared by every instance pointing at the same
// Redis. A lease expires after TTL even if its holder dies.
type Redis struct {
	Client  redis.UniversalClient
	Log     *zap.Logger
	Prefix  string
	TTL     time.Duration
	Timeout time.Duration
	Retry   time.Duration
}

func NewRedis(client redis.UniversalClient, log *zap.Logger, ttl, timeout time.Duration) *Redis {
	return &Redis{
		Client:  client,
		Log:     log,
		Prefix:  "frontdesk:lock:",
		TTL:     ttl,
		Timeout: timeout,
		Retry:   25 * time.Millisecond,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	full := r.Prefix + key
	token := uuid.NewString()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(r.Retry)
	defer ticker.Stop()

	for {
		ok, err := r.Client.SetNX(ctx, full, token, r.TTL).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("lock: acquire %s: %w", key, err)
		}
		if ok {
			return r.unlocker(full, token), nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrTimeout, key)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Redis) unlocker(full, token string) Unlock {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := unlockScript.Run(ctx, r.Client, []string{full}, token).Err(); err != nil {
				r.Log.Warn("release lock failed", zap.String("key", full), zap.Error(err))
			}
		})
	}
}
