package generator

import (
	"context"
	"sync"

	"github.com/strideloop/strideloop/internal/routing"
)

// Generator is the route generation capability consumed by the runner and
// the HTTP layer.
type Generator interface {
	GenerateRoute(ctx context.Context, origin routing.Coordinate, targetMiles float64, prefs Preferences) (*Route, error)
}

// Runner serializes generation requests: starting a new generation cancels
// any in-flight one, so at most one search runs at a time.
type Runner struct {
	generator Generator

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewRunner creates a runner around the given generator.
func NewRunner(generator Generator) *Runner {
	return &Runner{generator: generator}
}

// GenerateRoute runs a generation, superseding any in-flight one. The
// superseded call observes cancellation between attempts and returns
// context.Canceled.
func (r *Runner) GenerateRoute(ctx context.Context, origin routing.Coordinate, targetMiles float64, prefs Preferences) (*Route, error) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq
	r.cancel = cancel
	r.mu.Unlock()

	defer func() {
		cancel()
		r.mu.Lock()
		if r.seq == seq {
			r.cancel = nil
		}
		r.mu.Unlock()
	}()

	return r.generator.GenerateRoute(ctx, origin, targetMiles, prefs)
}
