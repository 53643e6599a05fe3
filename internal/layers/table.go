// Package layers scores the 15 deep-dive layers of a profile and compares
// them across two profiles.
package layers

import "cosmic-blueprint/internal/domain"

// Input selects which placement of a body feeds a layer.
type Input int

const (
	// Degree scores the body's position within its sign.
	Degree Input = iota
	// House scores the strength of the body's house.
	House
)

// Term is one weighted input of a layer formula.
type Term struct {
	Body   domain.Body
	Input  Input
	Weight float64
}

// Definition is a layer: a weighted sum of its terms.
type Definition struct {
	ID    int
	Name  string
	Terms []Term
}

// LayerCount is the number of layers.
const LayerCount = 15

// DefaultScore is used when a layer's inputs are missing from a profile.
const DefaultScore = 0.5

var definitions = [LayerCount]Definition{
	{1, "Core Identity", []Term{{domain.Sun, Degree, 0.6}, {domain.Sun, House, 0.4}}},
	{2, "Emotional Depth", []Term{{domain.Moon, Degree, 0.5}, {domain.Moon, House, 0.5}}},
	{3, "Leadership", []Term{{domain.Sun, House, 0.5}, {domain.Mars, Degree, 0.5}}},
	{4, "Love Language", []Term{{domain.Venus, Degree, 0.6}, {domain.Venus, House, 0.4}}},
	{5, "Communication", []Term{{domain.Mercury, Degree, 0.6}, {domain.Mercury, House, 0.4}}},
	{6, "Drive & Ambition", []Term{{domain.Mars, Degree, 0.5}, {domain.Mars, House, 0.3}, {domain.Saturn, Degree, 0.2}}},
	{7, "Growth & Expansion", []Term{{domain.Jupiter, Degree, 0.6}, {domain.Jupiter, House, 0.4}}},
	{8, "Discipline & Structure", []Term{{domain.Saturn, Degree, 0.5}, {domain.Saturn, House, 0.5}}},
	{9, "Intellectual Curiosity", []Term{{domain.Mercury, House, 0.4}, {domain.Jupiter, Degree, 0.3}, {domain.Uranus, Degree, 0.3}}},
	{10, "Innovation", []Term{{domain.Uranus, Degree, 0.6}, {domain.Uranus, House, 0.4}}},
	{11, "Intuition", []Term{{domain.Neptune, Degree, 0.5}, {domain.Moon, Degree, 0.3}, {domain.Neptune, House, 0.2}}},
	{12, "Transformation", []Term{{domain.Pluto, Degree, 0.6}, {domain.Pluto, House, 0.4}}},
	{13, "Social Harmony", []Term{{domain.Venus, House, 0.4}, {domain.Jupiter, House, 0.3}, {domain.Moon, Degree, 0.3}}},
	{14, "Stability & Security", []Term{{domain.Saturn, House, 0.4}, {domain.Moon, House, 0.3}, {domain.Venus, Degree, 0.3}}},
	{15, "Passion & Intensity", []Term{{domain.Mars, House, 0.4}, {domain.Pluto, Degree, 0.3}, {domain.Venus, Degree, 0.3}}},
}

// Definitions returns the layer table in id order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	for i, d := range definitions {
		d.Terms = append([]Term(nil), d.Terms...)
		out[i] = d
	}
	return out
}

// Name returns the name of a layer id, or "" if unknown.
func Name(id int) string {
	if id < 1 || id > LayerCount {
		return ""
	}
	return definitions[id-1].Name
}

// zoneDefinition is a fixed grouping of layers.
type zoneDefinition struct {
	name     string
	layerIDs []int
	note     string // recommendation for friction zones
}

// Zone thresholds.
const (
	SynergyThreshold  = 0.7  // mean alignment must exceed
	FrictionThreshold = 0.25 // mean gap must reach
)

var synergyZones = []zoneDefinition{
	{name: "Communication Flow", layerIDs: []int{5, 9}},
	{name: "Emotional Attunement", layerIDs: []int{2, 11, 13}},
	{name: "Shared Vision", layerIDs: []int{1, 7, 10}},
	{name: "Romantic Chemistry", layerIDs: []int{4, 15}},
	{name: "Mutual Growth", layerIDs: []int{7, 12}},
}

var frictionZones = []zoneDefinition{
	{name: "Power Dynamics", layerIDs: []int{3, 6}, note: "Agree on how decisions are shared before conflicts arise"},
	{name: "Emotional Needs", layerIDs: []int{2, 14}, note: "Name emotional needs explicitly instead of expecting them to be sensed"},
	{name: "Pace of Change", layerIDs: []int{8, 10}, note: "Negotiate a shared pace for change and routine"},
	{name: "Intimacy Expectations", layerIDs: []int{4, 12, 15}, note: "Discuss expectations around closeness and intensity openly"},
	{name: "Decision Making", layerIDs: []int{1, 5, 8}, note: "Set a clear process for making joint decisions"},
}
