package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(retries int) *Config {
	return &Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestNew_WithNilConfig(t *testing.T) {
	r := New(nil)
	if r.config.MaxRetries != 3 {
		t.Errorf("Expected default MaxRetries 3, got %d", r.config.MaxRetries)
	}
}

func TestNew_WithZeroValues(t *testing.T) {
	r := New(&Config{MaxRetries: 1, JitterFactor: 5})

	if r.config.InitialInterval != 200*time.Millisecond {
		t.Errorf("InitialInterval = %v", r.config.InitialInterval)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %v", r.config.Multiplier)
	}
	if r.config.JitterFactor != 1 {
		t.Errorf("JitterFactor should be clamped to 1, got %v", r.config.JitterFactor)
	}
}

func TestRetrier_Do_Success(t *testing.T) {
	calls := 0
	res := New(fastConfig(3)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	if res.Err != nil {
		t.Errorf("Expected no error, got %v", res.Err)
	}
	if res.Attempts != 1 || calls != 1 {
		t.Errorf("Expected 1 attempt, got %d", res.Attempts)
	}
}

func TestRetrier_Do_SuccessAfterRetries(t *testing.T) {
	calls := 0
	res := New(fastConfig(3)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	if res.Err != nil {
		t.Errorf("Expected no error, got %v", res.Err)
	}
	if res.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", res.Attempts)
	}
}

func TestRetrier_Do_Exhausted(t *testing.T) {
	opErr := errors.New("down")
	res := New(fastConfig(2)).Do(context.Background(), func(ctx context.Context) error {
		return opErr
	})

	if !errors.Is(res.Err, ErrExhausted) {
		t.Errorf("Expected ErrExhausted, got %v", res.Err)
	}
	if !errors.Is(res.Err, opErr) {
		t.Errorf("Expected wrapped op error, got %v", res.Err)
	}
	if res.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", res.Attempts)
	}
}

func TestRetrier_Do_PermanentError(t *testing.T) {
	notFound := errors.New("not found")
	res := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		return Permanent(notFound)
	})

	if res.Err != notFound {
		t.Errorf("Expected unwrapped permanent error, got %v", res.Err)
	}
	if res.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", res.Attempts)
	}
}

func TestRetrier_Do_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(fastConfig(3)).Do(ctx, func(ctx context.Context) error {
		t.Fatal("operation should not run")
		return nil
	})

	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", res.Err)
	}
}

func TestRetrier_OnRetry(t *testing.T) {
	var seen []int
	r := New(fastConfig(2)).OnRetry(func(attempt int, err error, wait time.Duration) {
		seen = append(seen, attempt)
	})
	r.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("callback attempts = %v, want [1 2]", seen)
	}
}

func TestBackoff_Capped(t *testing.T) {
	r := New(&Config{InitialInterval: time.Second, MaxInterval: 3 * time.Second, Multiplier: 2})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 3 * time.Second},
		{5, 3 * time.Second},
	}
	for _, tt := range tests {
		if got := r.backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestIsPermanent(t *testing.T) {
	if IsPermanent(errors.New("x")) {
		t.Error("plain error reported as permanent")
	}
	if !IsPermanent(Permanent(errors.New("x"))) {
		t.Error("Permanent error not detected")
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}
