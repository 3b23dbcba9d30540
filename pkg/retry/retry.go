package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrExhausted is returned when every attempt failed with a retryable error
var ErrExhausted = errors.New("retry attempts exhausted")

// Config contains backoff configuration
type Config struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// InitialInterval is the wait before the first retry
	InitialInterval time.Duration
	// MaxInterval caps the wait between attempts
	MaxInterval time.Duration
	// Multiplier grows the interval after each retry
	Multiplier float64
	// JitterFactor adds ±factor random spread to each wait
	JitterFactor float64
}

// DefaultConfig returns a short backoff suited to request-path calls:
// 200ms, 400ms, 800ms
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// PermanentError stops the retry loop immediately
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks an error as not retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Result describes a finished retry loop
type Result struct {
	// Err is the final error, nil on success. Permanent errors are unwrapped.
	Err error
	// LastError is the error from the final attempt
	LastError error
	// Attempts counts every call made, including the first
	Attempts int
}

// RetryCallback is called before each wait
type RetryCallback func(attempt int, err error, wait time.Duration)

// Retrier runs operations with exponential backoff
type Retrier struct {
	config  *Config
	onRetry RetryCallback
}

// New creates a Retrier, filling zero values with defaults
func New(config *Config) *Retrier {
	def := DefaultConfig()
	if config == nil {
		config = def
	}
	cfg := *config
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = def.Multiplier
	}
	cfg.JitterFactor = math.Max(0, math.Min(cfg.JitterFactor, 1))
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Retrier{config: &cfg}
}

// OnRetry sets a callback invoked before each backoff wait
func (r *Retrier) OnRetry(cb RetryCallback) *Retrier {
	r.onRetry = cb
	return r
}

// Do executes op until it succeeds, returns a permanent error, the
// context ends, or MaxRetries is reached
func (r *Retrier) Do(ctx context.Context, op Operation) *Result {
	res := &Result{}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		res.Attempts++
		err := op(ctx)
		if err == nil {
			res.LastError = nil
			return res
		}
		res.LastError = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			res.Err = perm.Err
			return res
		}
		if attempt >= r.config.MaxRetries {
			res.Err = errors.Join(ErrExhausted, err)
			return res
		}

		wait := r.backoff(attempt)
		if r.onRetry != nil {
			r.onRetry(attempt+1, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			res.Err = ctx.Err()
			return res
		case <-timer.C:
		}
	}
}

func (r *Retrier) backoff(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.JitterFactor > 0 {
		jitter := interval * r.config.JitterFactor
		interval += (rand.Float64()*2 - 1) * jitter
	}
	if interval > float64(r.config.MaxInterval) {
		interval = float64(r.config.MaxInterval)
	}
	if interval <= 0 {
		interval = float64(r.config.InitialInterval)
	}
	return time.Duration(interval)
}

// Do is a convenience wrapper around New(config).Do
func Do(ctx context.Context, config *Config, op Operation) *Result {
	return New(config).Do(ctx, op)
}
