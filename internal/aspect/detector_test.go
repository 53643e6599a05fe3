package aspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic-blueprint/internal/angle"
	"cosmic-blueprint/internal/domain"
)

func point(body domain.Body, lon float64) Point {
	return Point{Body: body, Now: lon, Future: lon}
}

func TestMatch_ConjunctionWithinOrb(t *testing.T) {
	rel := Match(point(domain.Sun, 10), point(domain.Moon, 15))

	require.Len(t, rel, 1)
	assert.Equal(t, domain.AspectConjunction, rel[0].Type)
	assert.InDelta(t, 5.0, rel[0].Orb, 1e-12)
	assert.Equal(t, domain.Sun, rel[0].BodyA)
	assert.Equal(t, domain.Moon, rel[0].BodyB)
}

func TestMatch_OutsideOrb(t *testing.T) {
	// Deviation 15 from conjunction, 45 from sextile.
	assert.Empty(t, Match(point(domain.Sun, 10), point(domain.Moon, 25)))
}

func TestMatch_Wraparound(t *testing.T) {
	rel := Match(point(domain.Venus, 355), point(domain.Mars, 3))
	require.Len(t, rel, 1)
	assert.Equal(t, domain.AspectConjunction, rel[0].Type)
	assert.InDelta(t, 8.0, rel[0].Orb, 1e-9)
}

func TestMatch_OrbBoundaryInclusive(t *testing.T) {
	rel := Match(point(domain.Sun, 0), point(domain.Saturn, 100))
	require.Len(t, rel, 0)

	rel = Match(point(domain.Sun, 0), point(domain.Saturn, 98))
	require.Len(t, rel, 1)
	assert.Equal(t, domain.AspectSquare, rel[0].Type)
	assert.InDelta(t, 8.0, rel[0].Orb, 1e-9)
}

func TestMatch_GapBetweenEntries(t *testing.T) {
	// Separation 75: square and sextile both deviate by 15.
	assert.Empty(t, Match(point(domain.Sun, 0), point(domain.Moon, 75)))

	rel := Match(point(domain.Sun, 0), point(domain.Moon, 65))
	require.Len(t, rel, 1)
	assert.Equal(t, domain.AspectSextile, rel[0].Type)
}

func TestMatch_Symmetric(t *testing.T) {
	for lonA := 0.0; lonA < 360; lonA += 17.3 {
		for lonB := 0.0; lonB < 360; lonB += 11.9 {
			ab := Match(point(domain.Sun, lonA), point(domain.Moon, lonB))
			ba := Match(point(domain.Moon, lonB), point(domain.Sun, lonA))

			require.Len(t, ba, len(ab))
			for i := range ab {
				assert.Equal(t, ab[i].Type, ba[i].Type)
				assert.Equal(t, ab[i].Orb, ba[i].Orb)
				assert.Equal(t, ab[i].Applying, ba[i].Applying)
			}
			assert.Equal(t, angle.Separation(lonA, lonB), angle.Separation(lonB, lonA))
		}
	}
}

func TestMatch_ApplyingAndSeparating(t *testing.T) {
	// Moon closing in on the Sun.
	applying := Match(
		Point{Body: domain.Sun, Now: 10, Future: 10.0004},
		Point{Body: domain.Moon, Now: 15, Future: 14.99},
	)
	require.Len(t, applying, 1)
	assert.True(t, applying[0].Applying)

	// Moon moving away.
	separating := Match(
		Point{Body: domain.Sun, Now: 10, Future: 10.0004},
		Point{Body: domain.Moon, Now: 15, Future: 15.01},
	)
	require.Len(t, separating, 1)
	assert.False(t, separating[0].Applying)

	// Unchanged deviation counts as separating.
	static := Match(point(domain.Sun, 10), point(domain.Moon, 15))
	require.Len(t, static, 1)
	assert.False(t, static[0].Applying)
}

func TestExtrapolate(t *testing.T) {
	p := Extrapolate(domain.Moon, 359.999, 0.55)
	assert.Equal(t, 359.999, p.Now)
	assert.InDelta(t, 0.0045, p.Future, 1e-9)

	r := Extrapolate(domain.Mercury, 0.001, -0.5)
	assert.InDelta(t, 359.996, r.Future, 1e-9)
}

func TestDetect_UnorderedPairs(t *testing.T) {
	points := []Point{
		point(domain.Sun, 0),
		point(domain.Moon, 120),
		point(domain.Mercury, 240),
	}

	rel := Detect(points)
	require.Len(t, rel, 3)

	assert.Equal(t, domain.Sun, rel[0].BodyA)
	assert.Equal(t, domain.Moon, rel[0].BodyB)
	assert.Equal(t, domain.Sun, rel[1].BodyA)
	assert.Equal(t, domain.Mercury, rel[1].BodyB)
	assert.Equal(t, domain.Moon, rel[2].BodyA)
	assert.Equal(t, domain.Mercury, rel[2].BodyB)
	for _, r := range rel {
		assert.Equal(t, domain.AspectTrine, r.Type)
	}
}

func TestDetectCross_AllOrderedCombinations(t *testing.T) {
	a := []Point{point(domain.Sun, 0), point(domain.Venus, 90)}
	b := []Point{point(domain.Sun, 0), point(domain.Mars, 90)}

	rel := DetectCross(a, b)
	require.Len(t, rel, 4)

	want := []struct {
		a, b domain.Body
		typ  domain.AspectType
	}{
		{domain.Sun, domain.Sun, domain.AspectConjunction},
		{domain.Sun, domain.Mars, domain.AspectSquare},
		{domain.Venus, domain.Sun, domain.AspectSquare},
		{domain.Venus, domain.Mars, domain.AspectConjunction},
	}
	for i, w := range want {
		assert.Equal(t, w.a, rel[i].BodyA)
		assert.Equal(t, w.b, rel[i].BodyB)
		assert.Equal(t, w.typ, rel[i].Type)
	}
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 5)
	c[0].Orb = 99
	assert.Equal(t, 10.0, Catalog()[0].Orb, "catalog must not be mutable through copies")

	assert.Equal(t, 1.0, Weight(domain.AspectConjunction))
	assert.Equal(t, 0.8, Weight(domain.AspectOpposition))
	assert.Equal(t, 0.9, Weight(domain.AspectTrine))
	assert.Equal(t, 0.7, Weight(domain.AspectSquare))
	assert.Equal(t, 0.5, Weight(domain.AspectSextile))
	assert.Equal(t, 0.0, Weight("Quincunx"))
}
