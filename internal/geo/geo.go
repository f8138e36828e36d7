// Package geo computes distance and bearing between coordinates and tracks
// the player's position relative to a target.
package geo

import (
	"fmt"
	"math"

	"github.com/playperu/wayward/internal/hunt"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371008.8

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b hunt.Coordinate) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Bearing returns the initial bearing from a to b in degrees, in [0, 360).
func Bearing(a, b hunt.Coordinate) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLng := radians(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := math.Mod(degrees(math.Atan2(y, x))+360, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// FormatDistance renders meters the way distance hints show them.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km away", meters/1000)
	}
	return fmt.Sprintf("%.0f m away", meters)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
