package domain

import "math"

// earthRadiusMeters is the spherical-earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Coordinates represents a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// DistanceMeters returns the great-circle distance between two points using
// the haversine formula. Symmetric, and zero when both points are equal.
func DistanceMeters(a, b Coordinates) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// WithinRadius reports whether target lies within radiusMeters of center.
// The boundary is inclusive.
func WithinRadius(center, target Coordinates, radiusMeters float64) bool {
	return DistanceMeters(center, target) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
