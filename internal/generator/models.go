// Package generator implements closed-loop route synthesis: given a start
// point and a target distance, it probes the directions gateway with rings of
// randomized waypoints until it finds a walkable loop whose length is close
// enough to the target.
package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/strideloop/strideloop/internal/routing"
)

// Sentinel errors for route generation.
var (
	// ErrAllAttemptsFailed indicates every attempt across every strategy failed
	// to produce a candidate loop.
	ErrAllAttemptsFailed = errors.New("all route generation attempts failed")
	// ErrRateLimited indicates the gateway signalled overload; the search was
	// aborted and a cooldown window started.
	ErrRateLimited = errors.New("directions gateway rate limited")
	// ErrInvalidDistance indicates the best loop found is too far from the
	// target distance to be useful.
	ErrInvalidDistance = errors.New("no loop close enough to the target distance")
)

// CooldownError is returned when a generation request arrives during the
// cooldown window that follows a rate-limited search.
type CooldownError struct {
	// Remaining is how long until new generation requests are accepted again.
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.Remaining.Round(time.Second))
}

// Unwrap lets callers match CooldownError with errors.Is(err, ErrRateLimited).
func (e *CooldownError) Unwrap() error {
	return ErrRateLimited
}

// SurfaceType classifies the dominant surface of a loop.
type SurfaceType string

const (
	// SurfaceRoad prefers short, direct legs, which are more likely paved.
	SurfaceRoad SurfaceType = "road"
	// SurfaceTrail prefers long legs, which more often traverse parks and trails.
	SurfaceTrail SurfaceType = "trail"
	// SurfaceMixed is a compromise between the two.
	SurfaceMixed SurfaceType = "mixed"
)

// ElevationPreference expresses a desired hilliness. It is advisory only;
// the generator records it but does not act on it.
type ElevationPreference string

const (
	ElevationFlat  ElevationPreference = "flat"
	ElevationHilly ElevationPreference = "hilly"
	ElevationMixed ElevationPreference = "mixed"
)

// Preferences carry per-request generation preferences.
// Immutable during a single generation.
type Preferences struct {
	// SurfaceTypes is the set of acceptable surfaces. Never treated as
	// empty: an empty set defaults to road.
	SurfaceTypes []SurfaceType

	// Elevation is advisory only.
	Elevation ElevationPreference
}

// normalized returns a copy with an empty surface set defaulted to road.
func (p Preferences) normalized() Preferences {
	if len(p.SurfaceTypes) == 0 {
		p.SurfaceTypes = []SurfaceType{SurfaceRoad}
	}
	return p
}

// only reports whether the preferences name exactly one surface type, and
// which one.
func (p Preferences) only() (SurfaceType, bool) {
	if len(p.SurfaceTypes) == 1 {
		return p.SurfaceTypes[0], true
	}
	return "", false
}

// surface returns the surface classification for a generated loop: the single
// preferred type if there is one, otherwise mixed.
func (p Preferences) surface() SurfaceType {
	if s, ok := p.only(); ok {
		return s
	}
	return SurfaceMixed
}

// Route is a generated closed loop. The engine never mutates a Route after
// creation; renaming and favorite-toggling happen in the storage layer.
type Route struct {
	ID                string
	Name              string
	DistanceMiles     float64
	ElevationGainFeet float64
	Surface           SurfaceType
	Points            []routing.Coordinate
	Favorite          bool
	CreatedAt         time.Time
}

// Strategy is a waypoint-count template used to shape the loop
// (2 waypoints = triangle, 3 = square, 4 = pentagon, counting the origin).
type Strategy struct {
	WaypointCount int
}

// candidate pairs an attempt's route with its distance from the target.
// Transient, scoped to one generation call.
type candidate struct {
	route *Route
	delta float64
}
