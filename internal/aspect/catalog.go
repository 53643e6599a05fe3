// Package aspect detects angular relationships between bodies.
package aspect

import (
	"time"

	"cosmic-blueprint/internal/domain"
)

// ApplyingStep is how far ahead positions are sampled to decide whether an
// aspect is applying or separating.
const ApplyingStep = 36 * time.Second // 0.01 h

// Definition is one entry of the aspect catalog.
type Definition struct {
	Type   domain.AspectType
	Angle  float64 // exact separation in degrees
	Orb    float64 // maximum permitted deviation
	Weight float64 // contribution to the synastry score
}

var catalog = [...]Definition{
	{Type: domain.AspectConjunction, Angle: 0, Orb: 10, Weight: 1.0},
	{Type: domain.AspectOpposition, Angle: 180, Orb: 10, Weight: 0.8},
	{Type: domain.AspectTrine, Angle: 120, Orb: 8, Weight: 0.9},
	{Type: domain.AspectSquare, Angle: 90, Orb: 8, Weight: 0.7},
	{Type: domain.AspectSextile, Angle: 60, Orb: 6, Weight: 0.5},
}

// Catalog returns a copy of the aspect catalog in detection order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog[:])
	return out
}

// Lookup returns the catalog entry for an aspect type.
func Lookup(t domain.AspectType) (Definition, bool) {
	for _, d := range catalog {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

// Weight returns the synastry weight of an aspect type, 0 if unknown.
func Weight(t domain.AspectType) float64 {
	d, _ := Lookup(t)
	return d.Weight
}
