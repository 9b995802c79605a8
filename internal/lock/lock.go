// Package lock serializes operations that must not run twice at the same time
// across service replicas, such as approving one order or a recurring run.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var ErrNotObtained = errors.New("lock not obtained")

type Locker interface {
	// Obtain acquires key and returns its release func.
	Obtain(ctx context.Context, key string) (func(context.Context) error, error)
}

// RedisLocker holds keys in Redis so every replica sees them.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(context.Context) error, error) {
	held, err := l.client.Obtain(ctx, "erp:lock:"+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		if err := held.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// LocalLocker serializes within one process. It is used when Redis is not configured.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]chan struct{})}
}

func (l *LocalLocker) Obtain(ctx context.Context, key string) (func(context.Context) error, error) {
	for {
		l.mu.Lock()
		wait, busy := l.keys[key]
		if !busy {
			done := make(chan struct{})
			l.keys[key] = done
			l.mu.Unlock()
			return func(context.Context) error {
				l.mu.Lock()
				delete(l.keys, key)
				l.mu.Unlock()
				close(done)
				return nil
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrNotObtained, key, ctx.Err())
		}
	}
}

// New picks the Redis locker when addr is set.
func New(addr, password string, db int, ttl time.Duration) (Locker, func() error) {
	if addr == "" {
		return NewLocalLocker(), func() error { return nil }
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return NewRedisLocker(rdb, ttl), rdb.Close
}
