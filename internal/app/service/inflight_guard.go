package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// InflightGuard lets at most one holder run an operation with a given name.
// TryAcquire returns ok=false without blocking if the name is already held.
type InflightGuard interface {
	TryAcquire(ctx context.Context, name string) (release func(), ok bool, err error)
}

type localGuard struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalGuard coordinates callers inside this process only.
func NewLocalGuard() InflightGuard {
	return &localGuard{held: make(map[string]bool)}
}

func (g *localGuard) TryAcquire(_ context.Context, name string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[name] {
		return nil, false, nil
	}
	g.held[name] = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, name)
			g.mu.Unlock()
		})
	}
	return release, true, nil
}

// Deletes the key only if it still holds our token, so an expired lock taken
// over by another instance is left alone.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

type redisGuard struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisGuard coordinates every instance sharing rdb. The ttl bounds how
// long a crashed holder can block others.
func NewRedisGuard(rdb *redis.Client, ttl time.Duration) InflightGuard {
	return &redisGuard{rdb: rdb, prefix: "techmock_lock:", ttl: ttl}
}

func (g *redisGuard) TryAcquire(ctx context.Context, name string) (func(), bool, error) {
	key := g.prefix + name
	token := uuid.NewString()

	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// the request context may already be done
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		deleted, err := releaseScript.Run(ctx, g.rdb, []string{key}, token).Int64()
		if err != nil {
			log.Printf("ERROR: Failed to release lock %s: %v", key, err)
		} else if deleted != 1 {
			log.Printf("WARN: Lock %s expired before release", key)
		}
	}
	return release, true, nil
}
