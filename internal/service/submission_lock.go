package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds the caller's token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

// lockStore is the part of pkg/redis.Client the lock needs
type lockStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisSubmissionLocker implements SubmissionLocker with SETNX and a
// compare-and-delete release
type RedisSubmissionLocker struct {
	store lockStore
}

// NewRedisSubmissionLocker creates a Redis-backed SubmissionLocker
func NewRedisSubmissionLocker(store lockStore) *RedisSubmissionLocker {
	return &RedisSubmissionLocker{store: store}
}

func (l *RedisSubmissionLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.store.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (l *RedisSubmissionLocker) Release(ctx context.Context, key, token string) error {
	return l.store.Eval(ctx, releaseScript, []string{key}, token).Err()
}

type localLock struct {
	token   string
	expires time.Time
}

// LocalSubmissionLocker is an in-process SubmissionLocker for single
// instance deployments without Redis
type LocalSubmissionLocker struct {
	mu   sync.Mutex
	held map[string]localLock
}

// NewLocalSubmissionLocker creates an in-process SubmissionLocker
func NewLocalSubmissionLocker() *LocalSubmissionLocker {
	return &LocalSubmissionLocker{held: make(map[string]localLock)}
}

func (l *LocalSubmissionLocker) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if lock, ok := l.held[key]; ok && now.Before(lock.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held[key] = localLock{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *LocalSubmissionLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lock, ok := l.held[key]; ok && lock.token == token {
		delete(l.held, key)
	}
	return nil
}

func submissionKey(managerID, editID string) string {
	target := editID
	if target == "" {
		target = "new"
	}
	return "submission:" + managerID + ":" + target
}
