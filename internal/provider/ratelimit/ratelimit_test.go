package ratelimit

import (
	"context"
	"testing"
	"time"

	"klsetracker/internal/quote"
)

type countingSource struct {
	calls int
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Quote(ctx context.Context, ticker string) (quote.Raw, error) {
	c.calls++
	return quote.Raw{}, nil
}

func TestMinInterval_SpacesConsecutiveCalls(t *testing.T) {
	src := &countingSource{}
	m := &MinInterval{S: src, Interval: 50 * time.Millisecond}

	start := time.Now()
	if _, err := m.Quote(context.Background(), "1155.KL"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := m.Quote(context.Background(), "1023.KL"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("second call not delayed: %v", elapsed)
	}
	if src.calls != 2 {
		t.Fatalf("calls = %d", src.calls)
	}
}

func TestMinInterval_CanceledContext(t *testing.T) {
	src := &countingSource{}
	m := &MinInterval{S: src, Interval: time.Hour}

	if _, err := m.Quote(context.Background(), "1155.KL"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Quote(ctx, "1023.KL"); err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("canceled call reached the source: %d", src.calls)
	}
}

func TestTokenBucket_BurstThenRefill(t *testing.T) {
	src := &countingSource{}
	tb := &TokenBucketSource{S: src, TB: NewTokenBucket(20, 2)}

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := tb.Quote(context.Background(), "5347.KL"); err != nil {
			t.Fatalf("burst call %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Fatalf("burst calls should not wait: %v", elapsed)
	}
	// third call has to wait for a refill at 20 tokens/sec
	if _, err := tb.Quote(context.Background(), "5347.KL"); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("third call not rate limited: %v", elapsed)
	}
	if src.calls != 3 {
		t.Fatalf("calls = %d", src.calls)
	}
}
