package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic-blueprint/internal/angle"
	"cosmic-blueprint/internal/domain"
)

func TestJulianDay(t *testing.T) {
	assert.Equal(t, J2000JD, JulianDay(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2440587.5, JulianDay(time.Unix(0, 0)))

	// Zone of the input must not matter.
	loc := time.FixedZone("UTC+2", 2*3600)
	assert.Equal(t,
		JulianDay(time.Date(1990, 9, 4, 10, 45, 0, 0, time.UTC)),
		JulianDay(time.Date(1990, 9, 4, 12, 45, 0, 0, loc)),
	)
}

func TestSunLongitude_KnownDates(t *testing.T) {
	m := New()

	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 280.38},
		{"1990 september", time.Date(1990, 9, 4, 10, 45, 0, 0, time.UTC), 161.7},
		{"2024 march equinox", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, err := m.Longitude(domain.Sun, tt.at)
			require.NoError(t, err)
			assert.LessOrEqual(t, math.Abs(angle.SignedDelta(tt.want, lon)), 1.0, "got %f", lon)
		})
	}
}

func TestMoonLongitude_Lunations(t *testing.T) {
	m := New()

	fullMoon := time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC)
	sun, err := m.Longitude(domain.Sun, fullMoon)
	require.NoError(t, err)
	moon, err := m.Longitude(domain.Moon, fullMoon)
	require.NoError(t, err)
	assert.InDelta(t, 180, angle.Separation(sun, moon), 2)

	newMoon := time.Date(2024, 1, 11, 11, 57, 0, 0, time.UTC)
	sun, err = m.Longitude(domain.Sun, newMoon)
	require.NoError(t, err)
	moon, err = m.Longitude(domain.Moon, newMoon)
	require.NoError(t, err)
	assert.Less(t, angle.Separation(sun, moon), 2.0)
}

func TestLongitude_RangeForAllBodies(t *testing.T) {
	m := New()
	dates := []time.Time{
		time.Date(1850, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 9, 4, 10, 45, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2049, 12, 31, 23, 59, 59, 0, time.UTC),
	}

	for _, at := range dates {
		for _, body := range domain.Bodies() {
			lon, err := m.Longitude(body, at)
			require.NoError(t, err, "%s at %s", body, at)
			assert.GreaterOrEqual(t, lon, 0.0)
			assert.Less(t, lon, 360.0)
		}
	}
}

func TestSample_Speeds(t *testing.T) {
	m := New()
	at := time.Date(1990, 9, 4, 10, 45, 0, 0, time.UTC)

	sun, err := m.Sample(domain.Sun, at)
	require.NoError(t, err)
	assert.InDelta(t, 0.9856/24, sun.Speed, 0.005)

	moon, err := m.Sample(domain.Moon, at)
	require.NoError(t, err)
	assert.Greater(t, moon.Speed, 0.45)
	assert.Less(t, moon.Speed, 0.7)
}

func TestSample_MercuryRetrograde(t *testing.T) {
	m := New()

	// Mercury stationed retrograde 2023-04-21 and direct 2023-05-15.
	retro, err := m.Sample(domain.Mercury, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Less(t, retro.Speed, 0.0)

	direct, err := m.Sample(domain.Mercury, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Greater(t, direct.Speed, 0.0)
}

func TestSample_Deterministic(t *testing.T) {
	at := time.Date(1990, 9, 4, 10, 45, 0, 0, time.UTC)

	for _, body := range domain.Bodies() {
		a, err := New().Sample(body, at)
		require.NoError(t, err)
		b, err := New().Sample(body, at)
		require.NoError(t, err)
		assert.Equal(t, a, b, body.String())
	}
}

func TestLongitude_ModelFailures(t *testing.T) {
	at := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("missing function", func(t *testing.T) {
		var m Model
		_, err := m.Longitude(domain.Sun, at)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrPhysicsModel))
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := New().Longitude(domain.Body(42), at)
		assert.True(t, errors.Is(err, domain.ErrPhysicsModel))
	})

	t.Run("non-finite value", func(t *testing.T) {
		m := New()
		m.positions[domain.Mars] = func(float64) (float64, error) { return math.NaN(), nil }

		_, err := m.Sample(domain.Mars, at)
		var pme *domain.PhysicsModelError
		require.True(t, errors.As(err, &pme))
		assert.Equal(t, domain.Mars, pme.Body)
	})

	t.Run("solver error propagates", func(t *testing.T) {
		m := New()
		m.positions[domain.Venus] = func(float64) (float64, error) { return solveKepler(1, 1.5) }

		_, err := m.Longitude(domain.Venus, at)
		assert.True(t, errors.Is(err, domain.ErrPhysicsModel))
		assert.True(t, errors.Is(err, ErrKeplerNonConvergence))
	})
}

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 0.0167, 0.2056, 0.2488, 0.9} {
		for _, M := range []float64{-3, -1, 0, 0.5, 2, 3.1} {
			E, err := solveKepler(M, e)
			require.NoError(t, err)
			assert.InDelta(t, M, E-e*math.Sin(E), 1e-10)
		}
	}
}
