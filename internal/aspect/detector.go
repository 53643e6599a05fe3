package aspect

import (
	"math"

	"cosmic-blueprint/internal/angle"
	"cosmic-blueprint/internal/domain"
)

// Point is a body's longitude now and one ApplyingStep later.
type Point struct {
	Body   domain.Body
	Now    float64
	Future float64
}

// Extrapolate builds a Point from a longitude and an angular speed in degrees
// per hour, for charts that cannot be re-sampled at a common instant.
func Extrapolate(body domain.Body, longitude, speed float64) Point {
	return Point{
		Body:   body,
		Now:    longitude,
		Future: angle.Normalize(longitude + speed*ApplyingStep.Hours()),
	}
}

// Detect matches every unordered pair of points against the catalog.
// Relations are ordered by pair (i < j in input order), then catalog order.
func Detect(points []Point) []domain.AspectRelation {
	var out []domain.AspectRelation
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			out = appendMatches(out, points[i], points[j])
		}
	}
	return out
}

// DetectCross matches every ordered combination of a point from a with a
// point from b. BodyA of each relation comes from a and BodyB from b.
func DetectCross(a, b []Point) []domain.AspectRelation {
	var out []domain.AspectRelation
	for _, pa := range a {
		for _, pb := range b {
			out = appendMatches(out, pa, pb)
		}
	}
	return out
}

// Match returns the relations between two points, one per matching catalog
// entry. Overlapping orbs may produce more than one.
func Match(a, b Point) []domain.AspectRelation {
	return appendMatches(nil, a, b)
}

func appendMatches(out []domain.AspectRelation, a, b Point) []domain.AspectRelation {
	now := angle.Separation(a.Now, b.Now)
	future := angle.Separation(a.Future, b.Future)

	for _, def := range catalog {
		deviation := math.Abs(now - def.Angle)
		if deviation > def.Orb {
			continue
		}
		out = append(out, domain.AspectRelation{
			BodyA:    a.Body,
			BodyB:    b.Body,
			Type:     def.Type,
			Orb:      deviation,
			Applying: math.Abs(future-def.Angle) < deviation,
		})
	}
	return out
}
