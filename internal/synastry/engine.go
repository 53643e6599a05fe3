// Package synastry compares two Blueprints: cross aspects, a compatibility
// score, highlight tags, element resonance and the layer deep dive.
package synastry

import (
	"math"
	"sort"

	"cosmic-blueprint/internal/aspect"
	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/layers"
)

const (
	// NoAspectScore is the compatibility score when no cross aspect matches.
	NoAspectScore = 0.5

	baseScore   = 0.4
	maxScore    = 0.99
	weightScale = 10.0

	maxHighlights = 3
)

// Highlight tags.
const (
	TagLuminaryBond       = "Luminary Bond"
	TagMagneticAttraction = "Magnetic Attraction"
	TagMentalRapport      = "Mental Rapport"
	TagExpansiveSupport   = "Expansive Support"
	TagBalanced           = "Balanced Interaction Flow"
)

// ComputeSynastry compares two Blueprints. It never fails; missing data
// degrades to default scores.
func ComputeSynastry(a, b *domain.Blueprint) domain.SynastryResult {
	inter := aspect.DetectCross(points(a), points(b))
	if inter == nil {
		inter = []domain.AspectRelation{}
	}

	return domain.SynastryResult{
		CompatibilityScore:  Score(inter),
		NarrativeHighlights: Highlights(inter),
		ElementComparison:   CompareElements(tally(a), tally(b)),
		InterAspects:        inter,
		DeepDive:            layers.DeepDive(a, b),
	}
}

// Score is min(0.99, 0.4 + sum(weights)/10), or NoAspectScore without aspects.
func Score(inter []domain.AspectRelation) float64 {
	if len(inter) == 0 {
		return NoAspectScore
	}
	var sum float64
	for _, rel := range inter {
		sum += aspect.Weight(rel.Type)
	}
	return math.Min(maxScore, baseScore+sum/weightScale)
}

// Highlights tags the three strongest aspects. Ranking is weight
// descending, orb ascending, then detection order.
func Highlights(inter []domain.AspectRelation) []string {
	tags := []string{}
	if len(inter) == 0 {
		return tags
	}

	ranked := make([]domain.AspectRelation, len(inter))
	copy(ranked, inter)
	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := aspect.Weight(ranked[i].Type), aspect.Weight(ranked[j].Type)
		if wi != wj {
			return wi > wj
		}
		return ranked[i].Orb < ranked[j].Orb
	})
	if len(ranked) > maxHighlights {
		ranked = ranked[:maxHighlights]
	}

	seen := make(map[string]bool)
	for _, rel := range ranked {
		tag := tagFor(rel)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		tags = append(tags, TagBalanced)
	}
	return tags
}

func tagFor(rel domain.AspectRelation) string {
	pair := func(x, y domain.Body) bool {
		return (rel.BodyA == x && rel.BodyB == y) || (rel.BodyA == y && rel.BodyB == x)
	}

	switch {
	case pair(domain.Sun, domain.Moon):
		return TagLuminaryBond
	case pair(domain.Venus, domain.Mars):
		return TagMagneticAttraction
	case pair(domain.Mercury, domain.Mercury):
		return TagMentalRapport
	case rel.Type == domain.AspectTrine && (rel.BodyA == domain.Jupiter || rel.BodyB == domain.Jupiter):
		return TagExpansiveSupport
	}
	return ""
}

// CompareElements compares two element tallies.
func CompareElements(p1, p2 domain.ElementTally) domain.ElementComparison {
	diff := domain.ElementTally{
		Fire:  math.Abs(p1.Fire - p2.Fire),
		Earth: math.Abs(p1.Earth - p2.Earth),
		Air:   math.Abs(p1.Air - p2.Air),
		Water: math.Abs(p1.Water - p2.Water),
	}
	mean := (diff.Fire + diff.Earth + diff.Air + diff.Water) / domain.ElementCount

	d1 := Dominant(p1)
	d2 := Dominant(p2)
	return domain.ElementComparison{
		Profile1:       p1,
		Profile2:       p2,
		Difference:     diff,
		Resonance:      1 - mean,
		Dominant1:      d1,
		Dominant2:      d2,
		SharedDominant: d1 == d2,
	}
}

// Dominant returns the element with the highest fraction; ties resolve in
// Fire, Earth, Air, Water order.
func Dominant(t domain.ElementTally) domain.Element {
	best := domain.Fire
	for _, e := range domain.Elements() {
		if t.Get(e) > t.Get(best) {
			best = e
		}
	}
	return best
}

// points extrapolates each planet one aspect step ahead from its speed;
// two static charts share no common instant to re-sample.
func points(bp *domain.Blueprint) []aspect.Point {
	if bp == nil {
		return nil
	}
	out := make([]aspect.Point, 0, len(bp.Planets))
	for _, p := range bp.Planets {
		out = append(out, aspect.Extrapolate(p.Body, p.Longitude, p.Speed))
	}
	return out
}

func tally(bp *domain.Blueprint) domain.ElementTally {
	if bp == nil {
		return domain.ElementTally{}
	}
	return bp.ElementTally
}
