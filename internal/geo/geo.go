// Package geo provides the geometry and time primitives shared by the
// clustering, assignment, and routing packages: haversine distance and
// "HH:MM" minute arithmetic.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// earthRadiusKm is the spherical-earth radius used by Haversine.
const earthRadiusKm = 6371.0

// Point is a (latitude, longitude) pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	x := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(x), math.Sqrt(1-x))

	return earthRadiusKm * c
}

// TravelMinutes converts a distance and a speed into a duration in minutes.
// Returns 0 when speedKmh is non-positive.
func TravelMinutes(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		return 0
	}
	return int((distanceKm / speedKmh) * 60)
}

// ParseHHMM parses a "HH:MM" string into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("geo: invalid time %q: %w", s, ErrInvalidTime)
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("geo: invalid time %q: %w", s, ErrInvalidTime)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("geo: invalid time %q: %w", s, ErrInvalidTime)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("geo: invalid time %q: %w", s, ErrInvalidTime)
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("geo: invalid time %q: %w", s, ErrInvalidTime)
	}

	return h*60 + m, nil
}

// MustParseHHMM is ParseHHMM for call sites that already validated the
// input (e.g. configuration defaults baked in at compile time).
func MustParseHHMM(s string) int {
	m, err := ParseHHMM(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FormatMinutes renders minutes-since-midnight back into "HH:MM".
func FormatMinutes(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// InWindow reports whether t lies in the closed interval [start, end].
func InWindow(t, start, end int) bool {
	return t >= start && t <= end
}

// AddMinutes adds delta minutes to a minutes-since-midnight value.
func AddMinutes(t, delta int) int {
	return t + delta
}
