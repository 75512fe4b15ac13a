package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LockClient serializes booking writes per resource with a Redis SetNX
// lock. A client built from an empty address is disabled and hands out
// locks unconditionally, which falls back to the database conflict scan
// alone.
type LockClient struct {
	client  *redis.Client
	lockTTL time.Duration
}

type Config struct {
	Addr     string
	Password string
	LockTTL  time.Duration
}

func NewLockClient(cfg Config) (*LockClient, error) {
	if cfg.Addr == "" {
		return &LockClient{lockTTL: cfg.LockTTL}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &LockClient{client: rdb, lockTTL: cfg.LockTTL}, nil
}

// Enabled reports whether a Redis connection exists.
func (lc *LockClient) Enabled() bool {
	return lc != nil && lc.client != nil
}

// AcquireLock takes the lock for a resource and returns a token for
// release, or ok=false when another writer holds it.
func (lc *LockClient) AcquireLock(ctx context.Context, resourceID string) (token string, ok bool, err error) {
	if !lc.Enabled() {
		return "", true, nil
	}

	token = uuid.New().String()
	ok, err = lc.client.SetNX(ctx, lockKey(resourceID), token, lc.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire lock for %s: %w", resourceID, err)
	}
	return token, ok, nil
}

// ReleaseLock frees the lock if the token still owns it. TTL expiry
// makes a missed release harmless.
func (lc *LockClient) ReleaseLock(ctx context.Context, resourceID, token string) error {
	if !lc.Enabled() || token == "" {
		return nil
	}

	const script = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

	if err := lc.client.Eval(ctx, script, []string{lockKey(resourceID)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock for %s: %w", resourceID, err)
	}
	return nil
}

func (lc *LockClient) Close() error {
	if lc.client == nil {
		return nil
	}
	return lc.client.Close()
}

func lockKey(resourceID string) string {
	return "lock:resource:" + resourceID
}
