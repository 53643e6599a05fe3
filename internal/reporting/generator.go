package reporting

import (
	"context"
	"math"
	"time"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/layers"
	"cosmic-blueprint/internal/storage"
	"cosmic-blueprint/internal/synastry"
)

// Generator produces evolution reports from stored snapshots and layer scores.
type Generator struct {
	snapshotStore   storage.SnapshotStore
	layerScoreStore storage.LayerScoreStore
	now             func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(snapshots storage.SnapshotStore, scores storage.LayerScoreStore) *Generator {
	return &Generator{
		snapshotStore:   snapshots,
		layerScoreStore: scores,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the evolution report of one user.
// Snapshots without persisted layer scores are scored from their Blueprint.
func (g *Generator) Generate(ctx context.Context, userID string) (*EvolutionReport, error) {
	snaps, err := g.snapshotStore.GetByUser(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	records, err := g.layerScoreStore.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]map[int]float64)
	for _, r := range records {
		if stored[r.SnapshotID] == nil {
			stored[r.SnapshotID] = make(map[int]float64)
		}
		stored[r.SnapshotID][r.LayerID] = r.Score
	}

	report := &EvolutionReport{
		GeneratedAt: g.now(),
		UserID:      userID,
		Snapshots:   make([]SnapshotRow, 0, len(snaps)),
	}

	defs := layers.Definitions()
	series := make([][]float64, len(defs))

	for _, snap := range snaps {
		report.Snapshots = append(report.Snapshots, snapshotRow(snap))

		scores, ok := stored[snap.ID]
		if !ok {
			scores = make(map[int]float64, len(defs))
			for _, s := range layers.Score(snap.Blueprint).Scores {
				scores[s.LayerID] = s.Score
			}
		}
		for i, def := range defs {
			v, ok := scores[def.ID]
			if !ok {
				v = math.NaN()
			}
			series[i] = append(series[i], v)
		}
	}

	for i, def := range defs {
		report.Layers = append(report.Layers, LayerSeriesRow{
			LayerID: def.ID,
			Name:    def.Name,
			Scores:  series[i],
			Delta:   delta(series[i]),
		})
	}

	return report, nil
}

func snapshotRow(snap *domain.Snapshot) SnapshotRow {
	row := SnapshotRow{
		SnapshotID:    snap.ID,
		ComputedAt:    snap.ComputedAt,
		EngineVersion: snap.EngineVersion,
		BirthDate:     snap.Input.Date,
	}
	bp := snap.Blueprint
	if bp == nil {
		return row
	}
	if p, ok := bp.Planet(domain.Sun); ok {
		row.SunSign = p.Sign.String()
	}
	if p, ok := bp.Planet(domain.Moon); ok {
		row.MoonSign = p.Sign.String()
	}
	row.AscendantSign = bp.AscendantSign.String()
	row.DominantElement = synastry.Dominant(bp.ElementTally).String()
	row.AspectCount = len(bp.Aspects)
	return row
}

// delta returns last - first over the non-NaN values, or 0 when fewer than two exist.
func delta(values []float64) float64 {
	first, last := math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(first) {
			first = v
		}
		last = v
	}
	if math.IsNaN(first) {
		return 0
	}
	return last - first
}
