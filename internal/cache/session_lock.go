package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another request holds the session lock
var ErrLocked = errors.New("session is locked")

// SessionLock serializes mutations of a single session across requests.
type SessionLock interface {
	// Acquire takes the lock for sessionID. The returned release func must be called once.
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

const lockRetryInterval = 25 * time.Millisecond

// deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisSessionLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisSessionLock creates a lock backed by SET NX PX. ttl bounds how long a
// crashed holder can block the session; wait is how long Acquire retries.
func NewRedisSessionLock(client *redis.Client, ttl, wait time.Duration) SessionLock {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &redisSessionLock{
		client: client,
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *redisSessionLock) key(sessionID string) string {
	return fmt.Sprintf("dcas:session:%s:lock", sessionID)
}

func (l *redisSessionLock) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := l.key(sessionID)
	token := uuid.NewString()

	err := retry(ctx, l.wait, func() (bool, error) {
		return l.client.SetNX(ctx, key, token, l.ttl).Result()
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// the caller's ctx may already be cancelled
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			releaseScript.Run(rctx, l.client, []string{key}, token)
		})
	}
	return release, nil
}

type localSessionLock struct {
	mu   sync.Mutex
	held map[string]struct{}
	wait time.Duration
}

// NewLocalSessionLock creates an in-process lock for single-instance deployments.
func NewLocalSessionLock(wait time.Duration) SessionLock {
	return &localSessionLock{
		held: make(map[string]struct{}),
		wait: wait,
	}
}

func (l *localSessionLock) tryLock(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[sessionID]; ok {
		return false
	}
	l.held[sessionID] = struct{}{}
	return true
}

func (l *localSessionLock) Acquire(ctx context.Context, sessionID string) (func(), error) {
	err := retry(ctx, l.wait, func() (bool, error) {
		return l.tryLock(sessionID), nil
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, sessionID)
			l.mu.Unlock()
		})
	}, nil
}

// retry calls try until it succeeds, errors, or wait elapses
func retry(ctx context.Context, wait time.Duration, try func() (bool, error)) error {
	deadline := time.Now().Add(wait)
	for {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrLocked
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
