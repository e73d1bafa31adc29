// Package spatial provides great-circle geometry helpers used to derive
// leg distances from coordinates.
package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used for distance conversion.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// WGS84 coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)

	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
