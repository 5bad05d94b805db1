package generator

import (
	"math"
	"math/rand"

	"github.com/strideloop/strideloop/internal/routing"
	"github.com/strideloop/strideloop/pkg/geo"
)

// Waypoint placement constants.
const (
	// radiusDivisor sizes the per-leg radius so the stitched loop lands near
	// the target: radius = target / (radiusDivisor * (waypoints + 1)).
	radiusDivisor = 2.5

	// attemptGrowth widens the ring by 15% per attempt, so later attempts
	// within a strategy probe larger loops if earlier ones undershot.
	attemptGrowth = 0.15

	// angleJitter perturbs each waypoint's bearing by up to ±0.3 rad and
	// radiusJitterMin/Max scale its distance, so the ring is not a perfect
	// polygon. Perfectly regular shapes snap to overlapping streets.
	angleJitter     = 0.3
	radiusJitterMin = 0.8
	radiusJitterMax = 1.2
)

// generateWaypoints distributes waypointCount points in a randomized ring
// around the origin, sized for the target distance and grown per attempt.
// Pure function of its inputs plus the random source; repeated calls with
// identical inputs yield different rings.
func generateWaypoints(rng *rand.Rand, origin routing.Coordinate, targetMiles float64, waypointCount, attempt int) []routing.Coordinate {
	radius := targetMiles / (radiusDivisor * float64(waypointCount+1))
	radius *= 1 + attemptGrowth*float64(attempt)

	baseAngle := rng.Float64() * 2 * math.Pi
	step := 2 * math.Pi / float64(waypointCount)

	points := make([]routing.Coordinate, 0, waypointCount)
	for i := 0; i < waypointCount; i++ {
		angle := baseAngle + step*float64(i) + (rng.Float64()*2-1)*angleJitter
		distance := radius * (radiusJitterMin + rng.Float64()*(radiusJitterMax-radiusJitterMin))

		p := geo.Offset(geo.Point{Lat: origin.Lat, Lon: origin.Lon}, distance, angle)
		points = append(points, routing.Coordinate{Lat: p.Lat, Lon: p.Lon})
	}

	return points
}
