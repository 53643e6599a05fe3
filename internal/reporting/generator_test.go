package reporting

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"cosmic-blueprint/internal/blueprint"
	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/instant"
	"cosmic-blueprint/internal/layers"
	"cosmic-blueprint/internal/storage/memory"
	"cosmic-blueprint/internal/synastry"
)

var testInput = domain.BirthInput{
	Date:      "1990-09-04",
	Time:      "12:45",
	Location:  "Pretoria, ZA",
	Latitude:  -25.7479,
	Longitude: 28.2293,
	Timezone:  "Africa/Johannesburg",
}

func testBlueprint(t *testing.T, in domain.BirthInput) *domain.Blueprint {
	t.Helper()
	bp, err := blueprint.New(blueprint.Options{Resolver: instant.NewResolver(nil, nil)}).Compute(in)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return bp
}

func setupTestData(t *testing.T) (*memory.SnapshotStore, *memory.LayerScoreStore) {
	ctx := context.Background()

	snapshots := memory.NewSnapshotStore()
	scores := memory.NewLayerScoreStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bp1 := testBlueprint(t, testInput)
	later := testInput
	later.Time = "18:10"
	bp2 := testBlueprint(t, later)

	for i, bp := range []*domain.Blueprint{bp1, bp2} {
		snap := &domain.Snapshot{
			ID:            []string{"s1", "s2"}[i],
			UserID:        "u1",
			Input:         bp.Input,
			Blueprint:     bp,
			ComputedAt:    base.Add(time.Duration(i) * time.Hour),
			EngineVersion: "test",
		}
		if err := snapshots.Insert(ctx, snap); err != nil {
			t.Fatalf("Insert snapshot failed: %v", err)
		}
	}

	// Only s1 has persisted scores; s2 is rescored from its Blueprint.
	var records []*domain.LayerScoreRecord
	for _, s := range layers.Score(bp1).Scores {
		records = append(records, &domain.LayerScoreRecord{
			SnapshotID: "s1", UserID: "u1", LayerID: s.LayerID, LayerName: s.Name, Score: s.Score, ComputedAt: base,
		})
	}
	if err := scores.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	return snapshots, scores
}

func TestGenerator_Generate(t *testing.T) {
	snapshots, scores := setupTestData(t)
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	report, err := NewGenerator(snapshots, scores).WithClock(func() time.Time { return fixed }).Generate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixed) {
		t.Errorf("GeneratedAt mismatch: got %v", report.GeneratedAt)
	}
	if len(report.Snapshots) != 2 || report.Snapshots[0].SnapshotID != "s1" {
		t.Fatalf("Unexpected snapshots: %+v", report.Snapshots)
	}
	if report.Snapshots[0].SunSign != "Virgo" {
		t.Errorf("Expected Sun in Virgo, got %s", report.Snapshots[0].SunSign)
	}
	if len(report.Layers) != layers.LayerCount {
		t.Fatalf("Expected %d layers, got %d", layers.LayerCount, len(report.Layers))
	}

	bp2, _ := snapshots.GetByID(context.Background(), "s2")
	rescored := layers.Score(bp2.Blueprint).Scores
	for i, l := range report.Layers {
		if len(l.Scores) != 2 {
			t.Fatalf("Layer %d: expected 2 scores, got %d", l.LayerID, len(l.Scores))
		}
		if l.Scores[1] != rescored[i].Score {
			t.Errorf("Layer %d: rescored value mismatch", l.LayerID)
		}
		if l.Delta != l.Scores[1]-l.Scores[0] {
			t.Errorf("Layer %d: delta mismatch", l.LayerID)
		}
	}
}

func TestGenerator_UnknownUser(t *testing.T) {
	snapshots, scores := setupTestData(t)

	report, err := NewGenerator(snapshots, scores).Generate(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(report.Snapshots) != 0 {
		t.Errorf("Expected no snapshots, got %d", len(report.Snapshots))
	}
	md := RenderEvolutionMarkdown(report)
	if !strings.Contains(md, "No snapshots stored.") {
		t.Errorf("Expected empty marker in markdown:\n%s", md)
	}
}

func TestDelta(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		values []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{nan, nan}, 0},
		{[]float64{0.25}, 0},
		{[]float64{0.25, nan, 0.75}, 0.5},
	}
	for _, tt := range tests {
		if got := delta(tt.values); got != tt.want {
			t.Errorf("delta(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}

func TestRenderPlanetsCSV(t *testing.T) {
	bp := testBlueprint(t, testInput)
	csv := RenderPlanetsCSV(bp)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != domain.BodyCount+1 {
		t.Fatalf("Expected %d lines, got %d", domain.BodyCount+1, len(lines))
	}
	if lines[0] != "body,longitude,sign,degree,house,speed,retrograde" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Sun,") || !strings.Contains(lines[1], ",Virgo,") {
		t.Errorf("Unexpected Sun row: %s", lines[1])
	}
	if RenderPlanetsCSV(bp) != csv {
		t.Error("Output is not deterministic")
	}
}

func TestRenderLayersCSV(t *testing.T) {
	profile := domain.ProfileLayers{Scores: []domain.LayerScore{
		{LayerID: 1, Name: "Core Identity", Score: 0.5},
		{LayerID: 6, Name: "Drive & Ambition", Score: 0.125},
		{LayerID: 99, Name: "a, b", Score: 1},
	}}

	want := "layer_id,name,score\n" +
		"1,Core Identity,0.500000\n" +
		"6,Drive & Ambition,0.125000\n" +
		"99,\"a, b\",1.000000\n"
	if got := RenderLayersCSV(profile); got != want {
		t.Errorf("RenderLayersCSV mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderBlueprintMarkdown(t *testing.T) {
	bp := testBlueprint(t, testInput)
	md := RenderBlueprintMarkdown(bp)

	for _, want := range []string{
		"# Blueprint",
		"1990-09-04 12:45 | Pretoria, ZA",
		"Timezone: Africa/Johannesburg",
		"| Sun |",
		"| Pluto |",
		"## Aspects",
		"| Water |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}
}

func TestRenderSynastryMarkdown(t *testing.T) {
	other := testInput
	other.Date = "1988-03-21"
	res := synastry.ComputeSynastry(testBlueprint(t, testInput), testBlueprint(t, other))

	md := RenderSynastryMarkdown(res)
	for _, want := range []string{"# Synastry", "## Highlights", "## Layers", "| 15 | Passion & Intensity |", "## Recommendations"} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}

	empty := RenderSynastryMarkdown(domain.SynastryResult{})
	if !strings.Contains(empty, "No highlights.") || !strings.Contains(empty, "No aspects.") {
		t.Errorf("Expected empty markers:\n%s", empty)
	}
}

func TestRenderLayerSeriesCSV(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	report := &EvolutionReport{
		Snapshots: []SnapshotRow{{SnapshotID: "s1", ComputedAt: at}, {SnapshotID: "s2", ComputedAt: at.Add(time.Hour)}},
		Layers:    []LayerSeriesRow{{LayerID: 2, Name: "Emotional Depth", Scores: []float64{0.5, math.NaN()}}},
	}

	want := "snapshot_id,computed_at,layer_id,name,score\n" +
		"s1,2024-01-01T00:00:00Z,2,Emotional Depth,0.500000\n"
	if got := RenderLayerSeriesCSV(report); got != want {
		t.Errorf("RenderLayerSeriesCSV mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
