// Package geo provides spherical geometry helpers for working with
// geographic coordinates in miles.
package geo

import (
	"math"
)

// EarthRadiusMiles is the mean Earth radius used for all spherical math.
const EarthRadiusMiles = 3958.8

// Point represents a geographic point with latitude and longitude in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceMiles calculates the great-circle distance between two points in
// miles using the haversine formula.
func DistanceMiles(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

// Offset returns the point reached by travelling distanceMiles from the
// origin along the given initial bearing. The bearing is in radians,
// measured clockwise from north.
func Offset(from Point, distanceMiles, bearing float64) Point {
	delta := distanceMiles / EarthRadiusMiles

	lat1 := toRadians(from.Lat)
	lon1 := toRadians(from.Lon)

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(bearing)
	lat2 := math.Asin(sinLat2)

	y := math.Sin(bearing) * math.Sin(delta) * math.Cos(lat1)
	x := math.Cos(delta) - math.Sin(lat1)*sinLat2
	lon2 := lon1 + math.Atan2(y, x)

	return Point{
		Lat: toDegrees(lat2),
		Lon: normalizeLon(toDegrees(lon2)),
	}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeLon wraps a longitude into the [-180, 180) range.
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+540, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
