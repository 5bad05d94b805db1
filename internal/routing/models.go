// Package routing defines the directions gateway boundary: point-to-point
// pedestrian path queries against an external provider.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for gateway operations.
var (
	// ErrProviderUnavailable indicates the directions provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
	// ErrNoPath indicates no walkable path exists between the given points.
	ErrNoPath = errors.New("no path found between the given points")
	// ErrRateLimited indicates the provider signalled transient overload or quota exhaustion.
	ErrRateLimited = errors.New("directions provider rate limited")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for directions providers.
// Any service offering point-to-point pedestrian directions with optional
// alternates can sit behind this interface.
type Provider interface {
	// Directions retrieves one or more candidate paths between two points.
	Directions(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
	// Name returns the provider identifier for logging and health tracking.
	Name() string
}

// Profile represents a travel mode understood by the provider.
type Profile string

// ProfileWalk is the pedestrian profile. Loop generation only ever walks.
const ProfileWalk Profile = "foot-walking"

// Coordinate represents a geographic point in WGS84 degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DirectionsRequest is the request for a single point-to-point leg.
type DirectionsRequest struct {
	Origin      Coordinate
	Destination Coordinate
	Profile     Profile
	Alternates  int // Number of alternative paths to request (0 = provider default)
}

// DirectionsResponse is the response containing candidate paths for a leg.
type DirectionsResponse struct {
	Paths     []Path
	Provider  string
	FetchedAt time.Time
}

// Path represents a single candidate path between two points.
type Path struct {
	GeometryPolyline string // Encoded polyline (precision 5)
	DistanceMeters   float64
	DurationSeconds  float64
}

// Error provides detailed error information from the directions provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying sentinel error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidateCoordinate checks that a coordinate is within valid WGS84 ranges.
func ValidateCoordinate(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return ErrInvalidCoordinates
	}
	if c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
