package notify

import (
	"context"
	"sync"
	"testing"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	ctx := WithNotifier(context.Background(), c)

	From(ctx).Notify(ctx, LevelLoading, "Saving event...")
	From(ctx).Notify(ctx, LevelSuccess, "Event saved")

	notices := c.Notices()
	if len(notices) != 2 {
		t.Fatalf("len = %d, want 2", len(notices))
	}
	if notices[1].Level != LevelSuccess || notices[1].Message != "Event saved" {
		t.Errorf("unexpected notice %+v", notices[1])
	}

	notices[0].Message = "mutated"
	if c.Notices()[0].Message == "mutated" {
		t.Error("Notices() should return a copy")
	}
}

func TestFrom_DefaultsToNop(t *testing.T) {
	From(context.Background()).Notify(context.Background(), LevelError, "ignored")
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Notify(context.Background(), LevelWarning, "w")
		}()
	}
	wg.Wait()

	if len(c.Notices()) != 50 {
		t.Errorf("len = %d, want 50", len(c.Notices()))
	}
}
