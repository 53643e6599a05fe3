// Package ephemeris computes geocentric ecliptic longitudes of the ten tracked
// bodies from one analytic model: Keplerian mean elements for the planets and
// the Earth-Moon barycenter, geocentric Keplerian elements plus periodic terms
// for the Moon. UTC is used as the time argument.
package ephemeris

import (
	"math"
	"time"

	"cosmic-blueprint/internal/angle"
	"cosmic-blueprint/internal/domain"
)

const (
	// J2000JD is the Julian date of 2000-01-01T12:00:00.
	J2000JD = 2451545.0

	unixEpochJD     = 2440587.5
	daysPerCentury  = 36525.0
	secondsPerDay   = 86400.0
	speedSampleStep = time.Hour
)

// JulianDay converts an instant to a Julian date.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	return unixEpochJD + float64(t.Unix())/secondsPerDay + float64(t.Nanosecond())/(secondsPerDay*1e9)
}

// JulianCenturies returns Julian centuries since J2000 for a Julian date.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000JD) / daysPerCentury
}

// positionFunc returns a geocentric ecliptic longitude in degrees.
type positionFunc func(jd float64) (float64, error)

// Sample is a body's longitude and angular speed at an instant.
type Sample struct {
	Longitude float64 // [0, 360)
	Speed     float64 // degrees per hour, signed
}

// Model resolves body positions. The zero value is not usable; use New.
type Model struct {
	positions [domain.BodyCount]positionFunc
}

// New creates the default model.
func New() *Model {
	return &Model{
		positions: [domain.BodyCount]positionFunc{
			domain.Sun:     sunLongitude,
			domain.Moon:    moonLongitude,
			domain.Mercury: planetLongitude(mercuryElements),
			domain.Venus:   planetLongitude(venusElements),
			domain.Mars:    planetLongitude(marsElements),
			domain.Jupiter: planetLongitude(jupiterElements),
			domain.Saturn:  planetLongitude(saturnElements),
			domain.Uranus:  planetLongitude(uranusElements),
			domain.Neptune: planetLongitude(neptuneElements),
			domain.Pluto:   planetLongitude(plutoElements),
		},
	}
}

// Longitude returns the body's ecliptic longitude in [0, 360) at t.
// Returns *domain.PhysicsModelError when the model cannot produce a value.
func (m *Model) Longitude(body domain.Body, t time.Time) (float64, error) {
	if !body.IsValid() || m.positions[body] == nil {
		return 0, &domain.PhysicsModelError{Body: body, Reason: "no position function"}
	}

	lon, err := m.positions[body](JulianDay(t))
	if err != nil {
		return 0, &domain.PhysicsModelError{Body: body, Reason: "position model failed", Err: err}
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, &domain.PhysicsModelError{Body: body, Reason: "non-finite longitude"}
	}
	return angle.Normalize(lon), nil
}

// Sample returns longitude at t and the angular speed estimated from a second
// evaluation one hour later. Retrograde motion has negative speed.
func (m *Model) Sample(body domain.Body, t time.Time) (Sample, error) {
	lon, err := m.Longitude(body, t)
	if err != nil {
		return Sample{}, err
	}
	later, err := m.Longitude(body, t.Add(speedSampleStep))
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		Longitude: lon,
		Speed:     angle.SignedDelta(lon, later) / speedSampleStep.Hours(),
	}, nil
}

// sunLongitude is the direction opposite the heliocentric Earth.
func sunLongitude(jd float64) (float64, error) {
	earth, err := earthMoonElements.heliocentric(JulianCenturies(jd))
	if err != nil {
		return 0, err
	}
	return angle.Degrees(math.Atan2(-earth.y, -earth.x)), nil
}

// planetLongitude returns the geocentric longitude function for a planet.
func planetLongitude(el orbitalElements) positionFunc {
	return func(jd float64) (float64, error) {
		T := JulianCenturies(jd)
		earth, err := earthMoonElements.heliocentric(T)
		if err != nil {
			return 0, err
		}
		planet, err := el.heliocentric(T)
		if err != nil {
			return 0, err
		}
		return angle.Degrees(math.Atan2(planet.y-earth.y, planet.x-earth.x)), nil
	}
}
