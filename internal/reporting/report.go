package reporting

import "time"

// EvolutionReport summarizes every stored snapshot of one user and how the
// 15 layer scores moved between them.
type EvolutionReport struct {
	// Metadata
	GeneratedAt time.Time
	UserID      string

	// Snapshots ordered by computed_at, id.
	Snapshots []SnapshotRow

	// Layers in layer order; Scores aligned with Snapshots.
	Layers []LayerSeriesRow
}

// SnapshotRow is one snapshot in an evolution report.
type SnapshotRow struct {
	SnapshotID      string
	ComputedAt      time.Time
	EngineVersion   string
	BirthDate       string
	SunSign         string
	MoonSign        string
	AscendantSign   string
	DominantElement string
	AspectCount     int
}

// LayerSeriesRow is the score history of one layer.
type LayerSeriesRow struct {
	LayerID int
	Name    string
	Scores  []float64 // one per snapshot; NaN when the snapshot has no score
	Delta   float64   // last - first known score
}
