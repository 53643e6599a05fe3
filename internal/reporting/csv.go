package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cosmic-blueprint/internal/domain"
)

// RenderPlanetsCSV renders the planet positions of a Blueprint as CSV string.
func RenderPlanetsCSV(bp *domain.Blueprint) string {
	var sb strings.Builder

	sb.WriteString("body,longitude,sign,degree,house,speed,retrograde\n")

	if bp == nil {
		return sb.String()
	}
	for _, p := range bp.Planets {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%s,%.6f,%d,%.6f,%t\n",
			p.Body,
			p.Longitude,
			p.Sign,
			p.DegreeWithinSign,
			p.House,
			p.Speed,
			p.Retrograde,
		))
	}

	return sb.String()
}

// RenderLayersCSV renders the layer scores of one profile as CSV string.
func RenderLayersCSV(profile domain.ProfileLayers) string {
	var sb strings.Builder

	sb.WriteString("layer_id,name,score\n")
	for _, s := range profile.Scores {
		sb.WriteString(fmt.Sprintf("%d,%s,%.6f\n", s.LayerID, csvField(s.Name), s.Score))
	}

	return sb.String()
}

// RenderLayerSeriesCSV renders an evolution report as one row per snapshot and layer.
func RenderLayerSeriesCSV(r *EvolutionReport) string {
	var sb strings.Builder

	sb.WriteString("snapshot_id,computed_at,layer_id,name,score\n")
	for i, snap := range r.Snapshots {
		for _, l := range r.Layers {
			if i >= len(l.Scores) || math.IsNaN(l.Scores[i]) {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s,%s,%d,%s,%.6f\n",
				snap.SnapshotID,
				snap.ComputedAt.UTC().Format(time.RFC3339Nano),
				l.LayerID,
				csvField(l.Name),
				l.Scores[i],
			))
		}
	}

	return sb.String()
}

// csvField quotes a value containing a comma or quote.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
