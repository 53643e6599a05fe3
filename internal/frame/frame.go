// Package frame computes the observer's angular frame: local sidereal time,
// ascendant, midheaven and whole-sign house cusps.
package frame

import (
	"math"
	"time"

	"cosmic-blueprint/internal/angle"
	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/ephemeris"
)

// Obliquity is the fixed obliquity of the ecliptic in degrees.
const Obliquity = 23.4392911

// Frame is the angular frame of an observer at an instant.
type Frame struct {
	LocalSiderealTime float64 // degrees, [0, 360)
	Ascendant         float64 // [0, 360)
	Midheaven         float64 // [0, 360)
	Cusps             domain.HouseCusps
}

// GreenwichSiderealTime returns mean sidereal time at Greenwich in degrees.
func GreenwichSiderealTime(t time.Time) float64 {
	jd := ephemeris.JulianDay(t)
	T := ephemeris.JulianCenturies(jd)
	gmst := 280.46061837 +
		360.98564736629*(jd-ephemeris.J2000JD) +
		0.000387933*T*T -
		T*T*T/38710000
	return angle.Normalize(gmst)
}

// LocalSiderealTime adds the observer's east longitude to GMST.
func LocalSiderealTime(t time.Time, longitude float64) float64 {
	return angle.Normalize(GreenwichSiderealTime(t) + longitude)
}

// Ascendant returns the ecliptic longitude rising on the eastern horizon.
func Ascendant(lst, latitude float64) float64 {
	ramc := angle.Radians(lst)
	eps := angle.Radians(Obliquity)
	phi := angle.Radians(latitude)

	y := math.Cos(ramc)
	x := -(math.Sin(ramc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))
	return angle.Normalize(angle.Degrees(math.Atan2(y, x)))
}

// Midheaven returns the ecliptic longitude culminating on the meridian.
func Midheaven(lst float64) float64 {
	ramc := angle.Radians(lst)
	eps := angle.Radians(Obliquity)
	return angle.Normalize(angle.Degrees(math.Atan2(math.Sin(ramc), math.Cos(ramc)*math.Cos(eps))))
}

// WholeSignCusps returns 12 cusps starting at the 30° floor of the ascendant.
// Whole-sign is the only supported house system; a quadrant system would
// replace this function and nothing else.
func WholeSignCusps(ascendant float64) domain.HouseCusps {
	var cusps domain.HouseCusps
	first := math.Floor(angle.Normalize(ascendant)/30) * 30
	for i := range cusps {
		cusps[i] = angle.Normalize(first + 30*float64(i))
	}
	return cusps
}

// Compute returns the full frame for an instant and observer position.
func Compute(t time.Time, latitude, longitude float64) Frame {
	lst := LocalSiderealTime(t, longitude)
	asc := Ascendant(lst, latitude)
	return Frame{
		LocalSiderealTime: lst,
		Ascendant:         asc,
		Midheaven:         Midheaven(lst),
		Cusps:             WholeSignCusps(asc),
	}
}
