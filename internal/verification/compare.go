// Package verification replays stored blueprint snapshots through the engine
// and reports every field where the recomputed Blueprint differs.
package verification

import (
	"fmt"
	"math"

	"cosmic-blueprint/internal/domain"
)

// FieldDivergence represents a mismatch between stored and replayed values.
type FieldDivergence struct {
	Field    string      `json:"field"`    // dotted path, e.g. Planets[Sun].Longitude
	Expected interface{} `json:"expected"` // stored value
	Actual   interface{} `json:"actual"`   // replayed value
}

// CompareBlueprints compares two blueprints field by field and returns divergences.
// Floats are compared exactly: the engine is deterministic, so any difference
// means the computation changed.
func CompareBlueprints(stored, replayed *domain.Blueprint) []FieldDivergence {
	var d divergences

	if stored == nil || replayed == nil {
		if stored != replayed {
			d.add("Blueprint", stored != nil, replayed != nil)
		}
		return d.list
	}

	if stored.Input != replayed.Input {
		d.add("Input", stored.Input, replayed.Input)
	}
	if !stored.InstantUTC.Equal(replayed.InstantUTC) {
		d.add("InstantUTC", stored.InstantUTC, replayed.InstantUTC)
	}
	d.str("Timezone", stored.Timezone, replayed.Timezone)

	comparePlanets(&d, stored.Planets, replayed.Planets)
	compareAspects(&d, stored.Aspects, replayed.Aspects)

	d.float("LocalSiderealTime", stored.LocalSiderealTime, replayed.LocalSiderealTime)
	d.float("Ascendant", stored.Ascendant, replayed.Ascendant)
	d.float("Midheaven", stored.Midheaven, replayed.Midheaven)
	if stored.AscendantSign != replayed.AscendantSign {
		d.add("AscendantSign", stored.AscendantSign, replayed.AscendantSign)
	}
	if stored.MidheavenSign != replayed.MidheavenSign {
		d.add("MidheavenSign", stored.MidheavenSign, replayed.MidheavenSign)
	}
	for i := range stored.HouseCusps {
		d.float(fmt.Sprintf("HouseCusps[%d]", i+1), stored.HouseCusps[i], replayed.HouseCusps[i])
	}

	for _, e := range domain.Elements() {
		d.float("ElementTally."+e.String(), stored.ElementTally.Get(e), replayed.ElementTally.Get(e))
	}
	for i := range stored.HouseDistribution {
		d.float(fmt.Sprintf("HouseDistribution[%d]", i+1), stored.HouseDistribution[i], replayed.HouseDistribution[i])
	}

	return d.list
}

func comparePlanets(d *divergences, stored, replayed []domain.PlanetPosition) {
	if len(stored) != len(replayed) {
		d.add("Planets.len", len(stored), len(replayed))
	}
	n := min(len(stored), len(replayed))
	for i := 0; i < n; i++ {
		s, r := stored[i], replayed[i]
		prefix := fmt.Sprintf("Planets[%s]", s.Body)
		if s.Body != r.Body {
			d.add(prefix+".Body", s.Body, r.Body)
			continue
		}
		d.float(prefix+".Longitude", s.Longitude, r.Longitude)
		if s.Sign != r.Sign {
			d.add(prefix+".Sign", s.Sign, r.Sign)
		}
		d.float(prefix+".DegreeWithinSign", s.DegreeWithinSign, r.DegreeWithinSign)
		if s.House != r.House {
			d.add(prefix+".House", s.House, r.House)
		}
		d.float(prefix+".Speed", s.Speed, r.Speed)
		if s.Retrograde != r.Retrograde {
			d.add(prefix+".Retrograde", s.Retrograde, r.Retrograde)
		}
	}
}

func compareAspects(d *divergences, stored, replayed []domain.AspectRelation) {
	if len(stored) != len(replayed) {
		d.add("Aspects.len", len(stored), len(replayed))
	}
	n := min(len(stored), len(replayed))
	for i := 0; i < n; i++ {
		s, r := stored[i], replayed[i]
		if s.BodyA != r.BodyA || s.BodyB != r.BodyB || s.Type != r.Type || s.Applying != r.Applying || !floatEquals(s.Orb, r.Orb) {
			d.add(fmt.Sprintf("Aspects[%d]", i), s, r)
		}
	}
}

// divergences accumulates field mismatches in comparison order.
type divergences struct {
	list []FieldDivergence
}

func (d *divergences) add(field string, expected, actual interface{}) {
	d.list = append(d.list, FieldDivergence{Field: field, Expected: expected, Actual: actual})
}

func (d *divergences) str(field, expected, actual string) {
	if expected != actual {
		d.add(field, expected, actual)
	}
}

func (d *divergences) float(field string, expected, actual float64) {
	if !floatEquals(expected, actual) {
		d.add(field, expected, actual)
	}
}

// floatEquals compares exactly; two NaNs are considered equal.
func floatEquals(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
