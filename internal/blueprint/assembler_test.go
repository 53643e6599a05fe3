package blueprint

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/ephemeris"
	"cosmic-blueprint/internal/instant"
)

type fixedLookup string

func (f fixedLookup) TimezoneName(lat, lon float64) (string, error) {
	return string(f), nil
}

type failingPositions struct {
	*ephemeris.Model
	body domain.Body
}

func (f failingPositions) Sample(body domain.Body, t time.Time) (ephemeris.Sample, error) {
	if body == f.body {
		return ephemeris.Sample{}, &domain.PhysicsModelError{Body: body, Reason: "test failure"}
	}
	return f.Model.Sample(body, t)
}

type anomalyCounter struct {
	mu    sync.Mutex
	kinds map[string]int
}

func (c *anomalyCounter) RecordAnomaly(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kinds == nil {
		c.kinds = make(map[string]int)
	}
	c.kinds[kind]++
}

func pretoria() domain.BirthInput {
	return domain.BirthInput{
		Date:      "1990-09-04",
		Time:      "12:45:00",
		Location:  "Pretoria",
		Latitude:  -25.7479,
		Longitude: 28.2293,
	}
}

func newTestAssembler(anomalies AnomalyRecorder) *Assembler {
	return New(Options{
		Resolver:  instant.NewResolver(fixedLookup("Africa/Johannesburg"), nil),
		Anomalies: anomalies,
	})
}

func TestCompute_Pretoria(t *testing.T) {
	a := newTestAssembler(nil)

	bp, err := a.Compute(pretoria())
	require.NoError(t, err)

	assert.Equal(t, time.Date(1990, 9, 4, 10, 45, 0, 0, time.UTC), bp.InstantUTC)
	assert.Equal(t, "Africa/Johannesburg", bp.Timezone)
	require.Len(t, bp.Planets, domain.BodyCount)

	sun, ok := bp.Planet(domain.Sun)
	require.True(t, ok)
	assert.Equal(t, domain.Virgo, sun.Sign)
	assert.False(t, sun.Retrograde)
}

func TestCompute_Deterministic(t *testing.T) {
	a := newTestAssembler(nil)

	first, err := a.Compute(pretoria())
	require.NoError(t, err)
	second, err := newTestAssembler(nil).Compute(pretoria())
	require.NoError(t, err)

	assert.Equal(t, first, second)

	s1, _ := first.Planet(domain.Sun)
	s2, _ := second.Planet(domain.Sun)
	assert.Equal(t, s1.Longitude, s2.Longitude)
	assert.Equal(t, s1.Sign, s2.Sign)
	assert.Equal(t, s1.Retrograde, s2.Retrograde)
}

func TestCompute_Invariants(t *testing.T) {
	a := newTestAssembler(nil)
	inputs := []domain.BirthInput{
		pretoria(),
		{Date: "2000-01-01", Time: "00:00", Latitude: 51.5, Longitude: -0.12, Timezone: "Europe/London"},
		{Date: "1975-06-21", Time: "23:59:59", Latitude: -33.87, Longitude: 151.21, Timezone: "Australia/Sydney"},
		{Date: "2024-03-20", Time: "03:06", Latitude: 0, Longitude: 0, Timezone: "UTC"},
	}

	for _, in := range inputs {
		bp, err := a.Compute(in)
		require.NoError(t, err, in.Date)

		for i, p := range bp.Planets {
			assert.Equal(t, domain.Body(i), p.Body)
			assert.GreaterOrEqual(t, p.Longitude, 0.0)
			assert.Less(t, p.Longitude, 360.0)
			assert.GreaterOrEqual(t, p.DegreeWithinSign, 0.0)
			assert.Less(t, p.DegreeWithinSign, 30.0)
			assert.GreaterOrEqual(t, p.House, 1)
			assert.LessOrEqual(t, p.House, 12)
			assert.Equal(t, p.Speed < 0, p.Retrograde)
		}

		tally := bp.ElementTally
		assert.InDelta(t, 1.0, tally.Fire+tally.Earth+tally.Air+tally.Water, 1e-9)

		var houses float64
		for _, v := range bp.HouseDistribution {
			houses += v
			assert.Equal(t, v, math.Round(v*1000)/1000)
		}
		assert.InDelta(t, 1.0, houses, 1e-9)

		assert.Equal(t, bp.HouseCusps[0], math.Floor(bp.Ascendant/30)*30)
		assert.NotNil(t, bp.Aspects)
		for _, rel := range bp.Aspects {
			assert.Less(t, int(rel.BodyA), int(rel.BodyB))
		}
	}
}

func TestCompute_InvalidTime(t *testing.T) {
	a := newTestAssembler(nil)

	in := pretoria()
	in.Date = "1990-02-30"

	bp, err := a.Compute(in)
	assert.Nil(t, bp)

	var ite *domain.InvalidTimeError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, "date", ite.Field)
}

func TestCompute_PhysicsModelErrorIsFatal(t *testing.T) {
	a := New(Options{
		Resolver:  instant.NewResolver(fixedLookup("Africa/Johannesburg"), nil),
		Positions: failingPositions{Model: ephemeris.New(), body: domain.Neptune},
	})

	bp, err := a.Compute(pretoria())
	assert.Nil(t, bp)

	var pme *domain.PhysicsModelError
	require.True(t, errors.As(err, &pme))
	assert.Equal(t, domain.Neptune, pme.Body)
	assert.True(t, errors.Is(err, domain.ErrPhysicsModel))
}

func TestCompute_PolarLatitudeRecordsAnomaly(t *testing.T) {
	counter := &anomalyCounter{}
	a := newTestAssembler(counter)

	in := pretoria()
	in.Latitude = 78.22
	in.Longitude = 15.65
	in.Timezone = "Arctic/Longyearbyen"

	bp, err := a.Compute(in)
	require.NoError(t, err)
	require.NotNil(t, bp)
	assert.Equal(t, 1, counter.kinds[AnomalyPolarAscendant])
	assert.Zero(t, counter.kinds[AnomalyHouseFallback])
}

func TestSky(t *testing.T) {
	a := newTestAssembler(nil)
	at := time.Date(2024, 1, 25, 17, 54, 0, 0, time.FixedZone("X", 3600))

	sky, err := a.Sky(at)
	require.NoError(t, err)

	assert.Equal(t, at.UTC(), sky.At)
	require.Len(t, sky.Planets, domain.BodyCount)
	for _, p := range sky.Planets {
		assert.Zero(t, p.House)
	}
}

func TestElementTally_Rounding(t *testing.T) {
	planets := make([]domain.PlanetPosition, domain.BodyCount)
	for i := range planets {
		planets[i].Sign = domain.Aries
	}
	planets[0].Sign = domain.Taurus
	planets[1].Sign = domain.Gemini
	planets[2].Sign = domain.Pisces

	tally := elementTally(planets)
	assert.Equal(t, domain.ElementTally{Fire: 0.7, Earth: 0.1, Air: 0.1, Water: 0.1}, tally)
}
