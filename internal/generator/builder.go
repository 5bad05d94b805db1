package generator

import (
	"context"

	"github.com/strideloop/strideloop/internal/routing"
	"github.com/strideloop/strideloop/pkg/polyline"
)

const (
	metersPerMile = 1609.344
	feetPerMile   = 5280.0

	// Directions responses carry no elevation profile, so climb is
	// estimated as an average 1% grade over the route length.
	estimatedGrade = 0.01

	// legAlternates is how many extra candidate paths to request per leg.
	legAlternates = 2
)

// buildRoute walks origin -> waypoints... -> origin, requesting one leg at a
// time and stitching the selected alternatives into a single closed loop.
// The throttle is consulted before every gateway call. The returned route
// has no ID or name; the controller assigns those after acceptance.
func (s *Service) buildRoute(ctx context.Context, origin routing.Coordinate, waypoints []routing.Coordinate, prefs Preferences) (*Route, error) {
	stops := make([]routing.Coordinate, 0, len(waypoints)+2)
	stops = append(stops, origin)
	stops = append(stops, waypoints...)
	stops = append(stops, origin)

	var (
		points    []routing.Coordinate
		distanceM float64
	)
	for i := 0; i < len(stops)-1; i++ {
		if err := s.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.gateway.Directions(ctx, routing.DirectionsRequest{
			Origin:      stops[i],
			Destination: stops[i+1],
			Profile:     routing.ProfileWalk,
			Alternates:  legAlternates,
		})
		if err != nil {
			return nil, err
		}

		path, ok := selectAlternative(resp.Paths, prefs)
		if !ok {
			return nil, routing.ErrNoPath
		}

		legPoints := polyline.Decode(path.GeometryPolyline)
		if len(legPoints) == 0 {
			return nil, routing.ErrNoPath
		}

		// The first point of each leg duplicates the last point of the
		// previous one.
		start := 0
		if len(points) > 0 {
			start = 1
		}
		for _, p := range legPoints[start:] {
			points = append(points, routing.Coordinate{Lat: p.Lat, Lon: p.Lon})
		}
		distanceM += path.DistanceMeters
	}

	miles := distanceM / metersPerMile
	return &Route{
		DistanceMiles:     miles,
		ElevationGainFeet: miles * feetPerMile * estimatedGrade,
		Surface:           prefs.surface(),
		Points:            points,
	}, nil
}
