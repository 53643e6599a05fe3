package domain

// LayerScore is one of the 15 deep-dive scores of a single profile.
type LayerScore struct {
	LayerID int     `json:"layer_id"` // [1, 15]
	Name    string  `json:"name"`
	Score   float64 `json:"score"` // [0, 1]
}

// ProfileLayers holds the 15 layer scores of one Blueprint in layer order.
type ProfileLayers struct {
	Scores []LayerScore `json:"scores"`
}

// LayerComparison compares one layer across two profiles.
type LayerComparison struct {
	LayerID       int     `json:"layer_id"`
	Name          string  `json:"name"`
	Profile1Score float64 `json:"profile1_score"`
	Profile2Score float64 `json:"profile2_score"`
	Gap           float64 `json:"gap"`       // |profile1 - profile2|
	Alignment     float64 `json:"alignment"` // 1 - gap
	Synergy       bool    `json:"synergy"`
}

// Zone is a reported synergy or friction grouping of layers.
// Score is the mean alignment for synergy zones and the mean gap for friction zones.
type Zone struct {
	Name     string  `json:"name"`
	LayerIDs []int   `json:"layer_ids"`
	Score    float64 `json:"score"`
}

// DeepDive is the layer-level comparison of two profiles.
type DeepDive struct {
	Layers           []LayerComparison `json:"layers"`
	SynergyZones     []Zone            `json:"synergy_zones"`
	FrictionZones    []Zone            `json:"friction_zones"`
	Recommendations  []string          `json:"recommendations"`
	OverallAlignment float64           `json:"overall_alignment"`
}

// ElementComparison compares the element tallies of two profiles.
type ElementComparison struct {
	Profile1       ElementTally `json:"profile1"`
	Profile2       ElementTally `json:"profile2"`
	Difference     ElementTally `json:"difference"` // per-element |p1 - p2|
	Resonance      float64      `json:"resonance"`  // 1 - mean difference
	Dominant1      Element      `json:"dominant1"`
	Dominant2      Element      `json:"dominant2"`
	SharedDominant bool         `json:"shared_dominant"`
}

// SynastryResult is the compatibility output for two Blueprints.
type SynastryResult struct {
	CompatibilityScore  float64           `json:"compatibility_score"`
	NarrativeHighlights []string          `json:"narrative_highlights"`
	ElementComparison   ElementComparison `json:"element_comparison"`
	InterAspects        []AspectRelation  `json:"inter_aspects"`
	DeepDive            DeepDive          `json:"deep_dive"`
}
