package geo

import (
	"math"
	"testing"
)

func TestDistanceMiles_KnownPair(t *testing.T) {
	// Amsterdam Centraal to Utrecht Centraal, roughly 21.7 miles.
	a := Point{Lat: 52.3791, Lon: 4.9003}
	b := Point{Lat: 52.0894, Lon: 5.1101}

	d := DistanceMiles(a, b)
	if d < 21 || d > 23 {
		t.Errorf("expected roughly 21.7 miles, got %f", d)
	}
}

func TestDistanceMiles_SamePoint(t *testing.T) {
	p := Point{Lat: 52.3791, Lon: 4.9003}
	if d := DistanceMiles(p, p); d != 0 {
		t.Errorf("expected 0 distance, got %f", d)
	}
}

func TestOffset_RoundTripsThroughDistance(t *testing.T) {
	origin := Point{Lat: 52.3791, Lon: 4.9003}

	tests := []struct {
		name     string
		distance float64
		bearing  float64
	}{
		{"north quarter mile", 0.25, 0},
		{"east one mile", 1.0, math.Pi / 2},
		{"south-west two miles", 2.0, 5 * math.Pi / 4},
		{"tiny hop", 0.01, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := Offset(origin, tt.distance, tt.bearing)
			got := DistanceMiles(origin, dest)

			if math.Abs(got-tt.distance) > tt.distance*0.001 {
				t.Errorf("expected distance %f, got %f", tt.distance, got)
			}
		})
	}
}

func TestOffset_NorthIncreasesLatitude(t *testing.T) {
	origin := Point{Lat: 52.0, Lon: 5.0}
	dest := Offset(origin, 1.0, 0)

	if dest.Lat <= origin.Lat {
		t.Errorf("expected latitude to increase, got %f -> %f", origin.Lat, dest.Lat)
	}
	if math.Abs(dest.Lon-origin.Lon) > 1e-9 {
		t.Errorf("expected longitude unchanged, got %f -> %f", origin.Lon, dest.Lon)
	}
}

func TestOffset_WrapsAntimeridian(t *testing.T) {
	origin := Point{Lat: 0, Lon: 179.99}
	dest := Offset(origin, 5.0, math.Pi/2)

	if dest.Lon < -180 || dest.Lon >= 180 {
		t.Errorf("expected longitude in [-180, 180), got %f", dest.Lon)
	}
	if dest.Lon > 0 {
		t.Errorf("expected crossing to negative longitude, got %f", dest.Lon)
	}
}
