// Package favorites provides saved-route management services.
package favorites

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrRouteNotFound = errors.New("saved route not found")
)

// SavedRoute represents a generated loop persisted for a device.
type SavedRoute struct {
	ID                string
	DeviceID          string
	Name              string
	DistanceMiles     float64
	ElevationGainFeet float64
	Surface           string
	GeometryPolyline  string
	Favorite          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
