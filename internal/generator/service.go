package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/strideloop/strideloop/internal/routing"
)

// Search tuning constants.
const (
	// maxToleranceMiles caps the acceptance window regardless of target.
	maxToleranceMiles = 0.3

	// toleranceFraction scales the acceptance window for short targets.
	toleranceFraction = 0.15

	// bestEffortFraction is how far off the best candidate may be, as a
	// fraction of the target, before the result is rejected outright.
	bestEffortFraction = 0.3

	defaultMaxAttempts = 8
	defaultCooldown    = 60 * time.Second
)

// ServiceConfig holds configuration for the route generation service.
type ServiceConfig struct {
	// Gateway provides point-to-point pedestrian directions.
	Gateway routing.Provider

	// Logger for generation progress and attempt failures.
	Logger zerolog.Logger

	// Throttle spaces gateway calls. Defaults to one call per second.
	Throttle *Throttle

	// Rand is the randomness source for waypoint geometry. Defaults to a
	// time-seeded source; tests inject a fixed seed.
	Rand *rand.Rand

	// MaxAttempts is the attempt cap per strategy (default: 8).
	MaxAttempts int

	// Cooldown is how long new generations are rejected after the gateway
	// rate-limits us (default: 60s).
	Cooldown time.Duration

	// Clock drives cooldown bookkeeping. Defaults to wall time.
	Clock Clock
}

// Service searches for a closed-loop route matching a target distance by
// iterating waypoint strategies and attempts against the directions gateway.
type Service struct {
	gateway     routing.Provider
	logger      zerolog.Logger
	throttle    *Throttle
	maxAttempts int
	cooldown    time.Duration
	clock       Clock

	mu            sync.Mutex
	rng           *rand.Rand
	cooldownUntil time.Time
}

// NewService creates a new route generation service.
func NewService(cfg ServiceConfig) *Service {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultMaxAttempts
	}

	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = defaultCooldown
	}

	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}

	throttle := cfg.Throttle
	if throttle == nil {
		throttle = NewThrottle(defaultThrottleInterval, clock)
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Service{
		gateway:     cfg.Gateway,
		logger:      cfg.Logger,
		throttle:    throttle,
		maxAttempts: maxAttempts,
		cooldown:    cooldown,
		clock:       clock,
		rng:         rng,
	}
}

// strategiesFor picks the ordered waypoint-count templates for a target.
// Longer loops get more corners so they do not collapse into out-and-back
// shapes; short loops stay simple.
func strategiesFor(targetMiles float64) []Strategy {
	if targetMiles < 2 {
		return []Strategy{{WaypointCount: 2}, {WaypointCount: 3}}
	}
	return []Strategy{{WaypointCount: 3}, {WaypointCount: 4}, {WaypointCount: 2}}
}

// toleranceFor computes the acceptance window for a target distance.
func toleranceFor(targetMiles float64) float64 {
	return math.Min(maxToleranceMiles, targetMiles*toleranceFraction)
}

// GenerateRoute searches for a loop starting and ending at origin whose
// length is as close as possible to targetMiles. It returns the first
// candidate within tolerance, or the best candidate found across all
// strategies and attempts if none met it.
func (s *Service) GenerateRoute(ctx context.Context, origin routing.Coordinate, targetMiles float64, prefs Preferences) (*Route, error) {
	if targetMiles <= 0 {
		return nil, ErrInvalidDistance
	}
	if err := routing.ValidateCoordinate(origin); err != nil {
		return nil, err
	}
	if remaining, cooling := s.cooldownRemaining(); cooling {
		return nil, &CooldownError{Remaining: remaining}
	}

	tolerance := toleranceFor(targetMiles)
	strategies := strategiesFor(targetMiles)
	prefs = prefs.normalized()

	log := s.logger.With().
		Float64("target_miles", targetMiles).
		Float64("tolerance_miles", tolerance).
		Logger()

	var best *candidate
	for _, strategy := range strategies {
		for attempt := 0; attempt < s.maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			waypoints := s.waypoints(origin, targetMiles, strategy.WaypointCount, attempt)

			route, err := s.buildRoute(ctx, origin, waypoints, prefs)
			if err != nil {
				switch {
				case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
					return nil, err
				case errors.Is(err, routing.ErrRateLimited):
					s.startCooldown()
					log.Warn().
						Int("waypoints", strategy.WaypointCount).
						Int("attempt", attempt).
						Msg("gateway rate limited, aborting search")
					return nil, ErrRateLimited
				default:
					log.Debug().
						Err(err).
						Int("waypoints", strategy.WaypointCount).
						Int("attempt", attempt).
						Msg("attempt discarded")
					continue
				}
			}

			delta := math.Abs(route.DistanceMiles - targetMiles)
			if best == nil || delta < best.delta {
				best = &candidate{route: route, delta: delta}
			}
			if delta <= tolerance {
				log.Info().
					Float64("distance_miles", route.DistanceMiles).
					Int("waypoints", strategy.WaypointCount).
					Int("attempt", attempt).
					Msg("route accepted within tolerance")
				return s.finalize(route), nil
			}
		}
	}

	if best == nil {
		return nil, ErrAllAttemptsFailed
	}
	if best.delta > targetMiles*bestEffortFraction {
		log.Warn().
			Float64("best_delta_miles", best.delta).
			Msg("best candidate too far from target")
		return nil, ErrInvalidDistance
	}

	log.Info().
		Float64("distance_miles", best.route.DistanceMiles).
		Float64("delta_miles", best.delta).
		Msg("returning best-effort route")
	return s.finalize(best.route), nil
}

// waypoints draws waypoint geometry under the lock guarding the shared
// randomness source.
func (s *Service) waypoints(origin routing.Coordinate, targetMiles float64, count, attempt int) []routing.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generateWaypoints(s.rng, origin, targetMiles, count, attempt)
}

// finalize stamps identity and metadata onto an accepted route.
func (s *Service) finalize(route *Route) *Route {
	route.ID = "rte_" + uuid.New().String()[:22]
	route.Name = fmt.Sprintf("%.1f mi loop", route.DistanceMiles)
	route.CreatedAt = s.clock.Now().UTC()
	return route
}

func (s *Service) cooldownRemaining() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.cooldownUntil.Sub(s.clock.Now())
	return remaining, remaining > 0
}

func (s *Service) startCooldown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cooldownUntil = s.clock.Now().Add(s.cooldown)
}
