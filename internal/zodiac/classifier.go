// Package zodiac maps ecliptic longitudes to signs and houses.
package zodiac

import (
	"math"

	"cosmic-blueprint/internal/angle"
	"cosmic-blueprint/internal/domain"
)

// FallbackHouse is returned when a longitude matches no cusp interval.
// Unreachable with well-formed cusps.
const FallbackHouse = 12

// SignOf returns the sign containing the longitude.
func SignOf(longitude float64) domain.Sign {
	return domain.Sign(int(math.Floor(angle.Normalize(longitude)/30)) % domain.SignCount)
}

// DegreeWithinSign returns the offset of the longitude from its sign start, [0, 30).
func DegreeWithinSign(longitude float64) float64 {
	lon := angle.Normalize(longitude)
	d := lon - 30*math.Floor(lon/30)
	if d >= 30 {
		d = 0
	}
	return d
}

// HouseOf returns the 1-based house whose half-open interval
// [cusp[i], cusp[i+1]) contains the longitude, treating a decreasing pair as
// wrapping through 0°. ok is false when the fallback house was used.
func HouseOf(longitude float64, cusps domain.HouseCusps) (house int, ok bool) {
	lon := angle.Normalize(longitude)
	for i := range cusps {
		start := cusps[i]
		end := cusps[(i+1)%len(cusps)]

		if start <= end {
			if lon >= start && lon < end {
				return i + 1, true
			}
			continue
		}
		if lon >= start || lon < end {
			return i + 1, true
		}
	}
	return FallbackHouse, false
}
