package layers

import (
	"math"
	"sort"

	"cosmic-blueprint/internal/domain"
)

// Recommendation texts outside the friction zone notes.
const (
	strengthPrefix        = "Leverage your shared strength in "
	checkInRecommendation = "Schedule regular check-ins to realign expectations"
)

const (
	maxFrictionRecommendations = 3
	strengthAlignment          = 0.75
	checkInAlignment           = 0.6
)

// DegreeToScore maps a longitude's position within its sign to [0.1, 0.95].
func DegreeToScore(degree float64) float64 {
	d := math.Mod(degree, 30)
	if d < 0 {
		d += 30
	}
	return clamp(d/30*0.8+0.1, 0.1, 0.95)
}

// HouseStrength is 0.85 for angular, 0.65 for succedent and 0.45 for cadent houses.
func HouseStrength(house int) float64 {
	switch house {
	case 1, 4, 7, 10:
		return 0.85
	case 2, 5, 8, 11:
		return 0.65
	default:
		return 0.45
	}
}

// Score evaluates all layers for a Blueprint. A nil Blueprint scores
// DefaultScore everywhere.
func Score(bp *domain.Blueprint) domain.ProfileLayers {
	scores := make([]domain.LayerScore, 0, LayerCount)
	for _, def := range definitions {
		scores = append(scores, domain.LayerScore{
			LayerID: def.ID,
			Name:    def.Name,
			Score:   evaluate(def, bp),
		})
	}
	return domain.ProfileLayers{Scores: scores}
}

func evaluate(def Definition, bp *domain.Blueprint) float64 {
	var sum float64
	for _, term := range def.Terms {
		p, ok := bp.Planet(term.Body)
		if !ok {
			return DefaultScore
		}
		switch term.Input {
		case Degree:
			sum += term.Weight * DegreeToScore(p.Longitude)
		case House:
			sum += term.Weight * HouseStrength(p.House)
		}
	}
	return clamp(sum, 0, 1)
}

// Compare builds the deep dive of two scored profiles. Layers missing from a
// profile are compared at DefaultScore.
func Compare(p1, p2 domain.ProfileLayers) domain.DeepDive {
	s1 := byID(p1)
	s2 := byID(p2)

	comparisons := make([]domain.LayerComparison, 0, LayerCount)
	var alignmentSum float64
	for _, def := range definitions {
		a := scoreOr(s1, def.ID)
		b := scoreOr(s2, def.ID)
		gap := math.Abs(a - b)
		avg := (a + b) / 2

		c := domain.LayerComparison{
			LayerID:       def.ID,
			Name:          def.Name,
			Profile1Score: a,
			Profile2Score: b,
			Gap:           gap,
			Alignment:     1 - gap,
			Synergy:       (a > 0.7 && b > 0.7) || (gap < 0.15 && avg > 0.6),
		}
		comparisons = append(comparisons, c)
		alignmentSum += c.Alignment
	}

	dd := domain.DeepDive{
		Layers:           comparisons,
		SynergyZones:     synergy(comparisons),
		OverallAlignment: alignmentSum / float64(len(comparisons)),
	}

	zones, notes := friction(comparisons)
	dd.FrictionZones = zones
	dd.Recommendations = recommendations(comparisons, notes, dd.OverallAlignment)
	return dd
}

// DeepDive scores both Blueprints and compares them.
func DeepDive(bp1, bp2 *domain.Blueprint) domain.DeepDive {
	return Compare(Score(bp1), Score(bp2))
}

func synergy(comparisons []domain.LayerComparison) []domain.Zone {
	zones := []domain.Zone{}
	for _, z := range synergyZones {
		mean := meanOf(comparisons, z.layerIDs, func(c domain.LayerComparison) float64 { return c.Alignment })
		if mean > SynergyThreshold {
			zones = append(zones, domain.Zone{Name: z.name, LayerIDs: append([]int(nil), z.layerIDs...), Score: mean})
		}
	}
	return zones
}

// friction returns reported friction zones ordered by mean gap descending
// and their recommendation notes in the same order.
func friction(comparisons []domain.LayerComparison) ([]domain.Zone, []string) {
	type reported struct {
		zone domain.Zone
		note string
	}
	var found []reported
	for _, z := range frictionZones {
		mean := meanOf(comparisons, z.layerIDs, func(c domain.LayerComparison) float64 { return c.Gap })
		if mean >= FrictionThreshold {
			found = append(found, reported{
				zone: domain.Zone{Name: z.name, LayerIDs: append([]int(nil), z.layerIDs...), Score: mean},
				note: z.note,
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].zone.Score > found[j].zone.Score
	})

	zones := make([]domain.Zone, 0, len(found))
	notes := make([]string, 0, len(found))
	for _, f := range found {
		zones = append(zones, f.zone)
		notes = append(notes, f.note)
	}
	return zones, notes
}

// recommendations are emitted friction first, then strength, then balance.
func recommendations(comparisons []domain.LayerComparison, frictionNotes []string, overall float64) []string {
	recs := []string{}
	for i, note := range frictionNotes {
		if i == maxFrictionRecommendations {
			break
		}
		recs = append(recs, note)
	}

	best := -1
	for i, c := range comparisons {
		if !c.Synergy || c.Alignment <= strengthAlignment {
			continue
		}
		if best < 0 || c.Alignment > comparisons[best].Alignment {
			best = i
		}
	}
	if best >= 0 {
		recs = append(recs, strengthPrefix+comparisons[best].Name)
	}

	if overall < checkInAlignment {
		recs = append(recs, checkInRecommendation)
	}
	return recs
}

func meanOf(comparisons []domain.LayerComparison, ids []int, value func(domain.LayerComparison) float64) float64 {
	var sum float64
	for _, id := range ids {
		sum += value(comparisons[id-1])
	}
	return sum / float64(len(ids))
}

func byID(p domain.ProfileLayers) map[int]float64 {
	m := make(map[int]float64, len(p.Scores))
	for _, s := range p.Scores {
		m[s.LayerID] = s.Score
	}
	return m
}

func scoreOr(m map[int]float64, id int) float64 {
	if s, ok := m[id]; ok {
		return s
	}
	return DefaultScore
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
