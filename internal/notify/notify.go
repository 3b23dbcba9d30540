// Package notify carries user-facing notices out of service operations.
package notify

import (
	"context"
	"sync"
)

// Level is the severity of a notice
type Level string

const (
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient message for the user
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notices emitted by service operations
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// Collector is a request-scoped Notifier that buffers notices
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Notify(_ context.Context, level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Level: level, Message: message})
}

// Notices returns a copy of the buffered notices
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

type ctxKey struct{}

// WithNotifier attaches n to ctx
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// From returns the notifier on ctx, or a no-op one
func From(ctx context.Context) Notifier {
	if n, ok := ctx.Value(ctxKey{}).(Notifier); ok && n != nil {
		return n
	}
	return nop{}
}

type nop struct{}

func (nop) Notify(context.Context, Level, string) {}
