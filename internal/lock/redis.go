package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// release only if we still own the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis locks slots across replicas with SET NX PX. The TTL bounds how long a
// crashed holder can block a slot; it must exceed the longest validate+write.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{client: client, prefix: "slotlock:", ttl: ttl, retry: 20 * time.Millisecond}
}

func (r *Redis) Backend() string { return "redis" }

func (r *Redis) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(keys))

	for _, k := range keys {
		if err := r.acquire(ctx, r.prefix+k, token); err != nil {
			r.release(held, token)
			return nil, err
		}
		held = append(held, r.prefix+k)
	}
	return func() { r.release(held, token) }, nil
}

func (r *Redis) acquire(ctx context.Context, key, token string) error {
	t := time.NewTicker(r.retry)
	defer t.Stop()
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("lock %s: %w", key, ctx.Err())
		case <-t.C:
		}
	}
}

// release runs on a fresh context so a cancelled request still frees its keys.
func (r *Redis) release(keys []string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := len(keys) - 1; i >= 0; i-- {
		// on failure the TTL reclaims the key
		_ = releaseScript.Run(ctx, r.client, []string{keys[i]}, token).Err()
	}
}
