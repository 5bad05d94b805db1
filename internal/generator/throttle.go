package generator

import (
	"context"
	"sync"
	"time"
)

// defaultThrottleInterval is the minimum spacing between directions calls.
const defaultThrottleInterval = time.Second

// Clock abstracts wall time so throttle and cooldown behaviour can be
// tested without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Throttle enforces a minimum interval between upstream calls. Each caller
// reserves the next available slot under the lock, then sleeps outside it,
// so concurrent callers are serialized at interval spacing.
type Throttle struct {
	clock    Clock
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewThrottle returns a throttle spacing calls at the given interval.
// A zero or negative interval falls back to the one second default.
func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if interval <= 0 {
		interval = defaultThrottleInterval
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Throttle{clock: clock, interval: interval}
}

// Wait blocks until the caller's reserved slot arrives or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := t.clock.Now()
	slot := t.next
	if slot.Before(now) {
		slot = now
	}
	t.next = slot.Add(t.interval)
	t.mu.Unlock()

	return t.clock.Sleep(ctx, slot.Sub(now))
}
