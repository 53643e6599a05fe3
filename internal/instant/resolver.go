// Package instant converts local birth date/time and coordinates into an
// absolute UTC instant.
package instant

import (
	"math"
	"strconv"
	"time"
	_ "time/tzdata" // zone rules must not depend on the host

	"go.uber.org/zap"

	"cosmic-blueprint/internal/domain"
)

const (
	dateLayout        = "2006-01-02"
	timeLayoutSeconds = "15:04:05"
	timeLayoutMinutes = "15:04"
)

// InvalidTimeError reasons.
const (
	ReasonMalformed   = "malformed"
	ReasonOutOfRange  = "out of range"
	ReasonUnknownZone = "unknown timezone"
	ReasonNonexistent = "nonexistent local time"
	ReasonAmbiguous   = "ambiguous local time"
)

// ZoneLookup resolves an IANA timezone name from coordinates.
type ZoneLookup interface {
	TimezoneName(lat, lon float64) (string, error)
}

// Resolver turns a BirthInput into a ResolvedInstant.
// Safe for concurrent use; it holds only read-only state.
type Resolver struct {
	lookup ZoneLookup
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil lookup makes every input without an
// explicit timezone fall back to UTC.
func NewResolver(lookup ZoneLookup, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve validates the input and returns its absolute instant.
// Returns *domain.InvalidTimeError when the fields do not denote exactly one real instant.
func (r *Resolver) Resolve(in domain.BirthInput) (domain.ResolvedInstant, error) {
	if math.IsNaN(in.Latitude) || in.Latitude < -90 || in.Latitude > 90 {
		return domain.ResolvedInstant{}, invalid("latitude", formatCoord(in.Latitude), ReasonOutOfRange)
	}
	if math.IsNaN(in.Longitude) || in.Longitude < -180 || in.Longitude > 180 {
		return domain.ResolvedInstant{}, invalid("longitude", formatCoord(in.Longitude), ReasonOutOfRange)
	}

	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return domain.ResolvedInstant{}, invalid("date", in.Date, ReasonMalformed)
	}
	clock, err := parseClock(in.Time)
	if err != nil {
		return domain.ResolvedInstant{}, invalid("time", in.Time, ReasonMalformed)
	}

	loc, fallback, err := r.location(in)
	if err != nil {
		return domain.ResolvedInstant{}, err
	}

	t, reason := civilToInstant(date, clock, loc)
	if reason != "" {
		return domain.ResolvedInstant{}, invalid("time", in.Date+" "+in.Time+" "+loc.String(), reason)
	}

	return domain.ResolvedInstant{
		UTC:      t.UTC(),
		Timezone: loc.String(),
		Fallback: fallback,
	}, nil
}

// location picks the zone: explicit name, then coordinate lookup, then UTC.
func (r *Resolver) location(in domain.BirthInput) (*time.Location, bool, error) {
	if in.Timezone != "" {
		// "Local" would make the result depend on the host.
		if in.Timezone == "Local" {
			return nil, false, invalid("timezone", in.Timezone, ReasonUnknownZone)
		}
		loc, err := time.LoadLocation(in.Timezone)
		if err != nil {
			return nil, false, invalid("timezone", in.Timezone, ReasonUnknownZone)
		}
		return loc, false, nil
	}

	if r.lookup == nil {
		return time.UTC, true, nil
	}

	name, err := r.lookup.TimezoneName(in.Latitude, in.Longitude)
	if err != nil || name == "" {
		r.logger.Warn("timezone lookup failed, assuming UTC",
			zap.Float64("latitude", in.Latitude),
			zap.Float64("longitude", in.Longitude),
			zap.Error(err),
		)
		return time.UTC, true, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		r.logger.Warn("timezone from lookup not loadable, assuming UTC",
			zap.String("timezone", name),
			zap.Error(err),
		)
		return time.UTC, true, nil
	}
	return loc, false, nil
}

type clockTime struct {
	hour, minute, second int
}

func parseClock(s string) (clockTime, error) {
	t, err := time.Parse(timeLayoutSeconds, s)
	if err != nil {
		t, err = time.Parse(timeLayoutMinutes, s)
		if err != nil {
			return clockTime{}, err
		}
	}
	return clockTime{hour: t.Hour(), minute: t.Minute(), second: t.Second()}, nil
}

// civilToInstant finds every UTC instant whose wall clock in loc equals the
// requested civil time. Exactly one must exist.
// Returns a non-empty reason when zero (DST gap) or two (DST overlap) match.
func civilToInstant(date time.Time, clock clockTime, loc *time.Location) (time.Time, string) {
	y, mo, d := date.Date()
	naive := time.Date(y, mo, d, clock.hour, clock.minute, clock.second, 0, time.UTC)

	// Zone offsets in effect around the naive instant cover both sides of any
	// transition that could affect this wall clock.
	var offsets []int
	for _, shift := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
		_, off := naive.Add(shift).In(loc).Zone()
		if !containsInt(offsets, off) {
			offsets = append(offsets, off)
		}
	}

	var matches []time.Time
	for _, off := range offsets {
		candidate := naive.Add(-time.Duration(off) * time.Second)
		local := candidate.In(loc)
		if local.Year() == y && local.Month() == mo && local.Day() == d &&
			local.Hour() == clock.hour && local.Minute() == clock.minute && local.Second() == clock.second {
			if !containsTime(matches, candidate) {
				matches = append(matches, candidate)
			}
		}
	}

	switch len(matches) {
	case 0:
		return time.Time{}, ReasonNonexistent
	case 1:
		return matches[0], ""
	default:
		return time.Time{}, ReasonAmbiguous
	}
}

func invalid(field, value, reason string) *domain.InvalidTimeError {
	return &domain.InvalidTimeError{Field: field, Value: value, Reason: reason}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsTime(xs []time.Time, v time.Time) bool {
	for _, x := range xs {
		if x.Equal(v) {
			return true
		}
	}
	return false
}
