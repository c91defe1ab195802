package ratelimit

import (
	"context"
	"sync"
	"time"

	"klsetracker/internal/provider"
	"klsetracker/internal/quote"
)

// MinInterval wraps a source and enforces a minimum time between quote
// calls. This is the courtesy delay between successive per-symbol
// fetches; the first call passes immediately. Callers wait until the
// interval has elapsed since the last call, or return early if the
// context is canceled.
type MinInterval struct {
	S        provider.Source
	Interval time.Duration
	mu       sync.Mutex
	last     time.Time
}

func (m *MinInterval) Name() string { return m.S.Name() }

func (m *MinInterval) Quote(ctx context.Context, ticker string) (quote.Raw, error) {
	if m.Interval > 0 {
		m.mu.Lock()
		wait := time.Until(m.last.Add(m.Interval))
		m.mu.Unlock()
		if wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return quote.Raw{}, ctx.Err()
			case <-t.C:
			}
		}
	}
	raw, err := m.S.Quote(ctx, ticker)
	if m.Interval > 0 {
		m.mu.Lock()
		m.last = time.Now()
		m.mu.Unlock()
	}
	return raw, err
}
