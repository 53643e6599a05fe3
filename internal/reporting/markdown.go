package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cosmic-blueprint/internal/domain"
)

// RenderBlueprintMarkdown renders a Blueprint as Markdown string.
func RenderBlueprintMarkdown(bp *domain.Blueprint) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Blueprint\n\n")
	sb.WriteString(fmt.Sprintf("Birth: %s %s", bp.Input.Date, bp.Input.Time))
	if bp.Input.Location != "" {
		sb.WriteString(fmt.Sprintf(" | %s", bp.Input.Location))
	}
	sb.WriteString(fmt.Sprintf(" (%.4f, %.4f)\n\n", bp.Input.Latitude, bp.Input.Longitude))
	sb.WriteString(fmt.Sprintf("Instant: %s | Timezone: %s\n\n", bp.InstantUTC.UTC().Format(time.RFC3339), bp.Timezone))

	// Angles
	sb.WriteString("## Angles\n\n")
	sb.WriteString("| Angle | Longitude | Sign |\n")
	sb.WriteString("|-------|-----------|------|\n")
	sb.WriteString(fmt.Sprintf("| Ascendant | %.4f | %s |\n", bp.Ascendant, bp.AscendantSign))
	sb.WriteString(fmt.Sprintf("| Midheaven | %.4f | %s |\n", bp.Midheaven, bp.MidheavenSign))
	sb.WriteString(fmt.Sprintf("| Local Sidereal Time | %.4f | |\n", bp.LocalSiderealTime))
	sb.WriteString("\n")

	// Planets
	sb.WriteString("## Planets\n\n")
	sb.WriteString("| Body | Longitude | Sign | Degree | House | Speed (°/h) | Retrograde |\n")
	sb.WriteString("|------|-----------|------|--------|-------|-------------|------------|\n")
	for _, p := range bp.Planets {
		retro := ""
		if p.Retrograde {
			retro = "R"
		}
		sb.WriteString(fmt.Sprintf("| %s | %.4f | %s | %.2f | %d | %.5f | %s |\n",
			p.Body, p.Longitude, p.Sign, p.DegreeWithinSign, p.House, p.Speed, retro))
	}
	sb.WriteString("\n")

	// Aspects
	sb.WriteString("## Aspects\n\n")
	writeAspectTable(&sb, bp.Aspects)

	// Distributions
	sb.WriteString("## Elements\n\n")
	writeElementTable(&sb, bp.ElementTally)

	sb.WriteString("## Houses\n\n")
	sb.WriteString("| House | Cusp | Share |\n")
	sb.WriteString("|-------|------|-------|\n")
	for i, cusp := range bp.HouseCusps {
		sb.WriteString(fmt.Sprintf("| %d | %.4f | %.3f |\n", i+1, cusp, bp.HouseDistribution[i]))
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderSynastryMarkdown renders a SynastryResult as Markdown string.
func RenderSynastryMarkdown(res domain.SynastryResult) string {
	var sb strings.Builder

	sb.WriteString("# Synastry\n\n")
	sb.WriteString(fmt.Sprintf("Compatibility: %.4f\n\n", res.CompatibilityScore))

	sb.WriteString("## Highlights\n\n")
	if len(res.NarrativeHighlights) == 0 {
		sb.WriteString("No highlights.\n\n")
	} else {
		for _, h := range res.NarrativeHighlights {
			sb.WriteString(fmt.Sprintf("- %s\n", h))
		}
		sb.WriteString("\n")
	}

	// Elements
	ec := res.ElementComparison
	sb.WriteString("## Elements\n\n")
	sb.WriteString("| Element | Profile 1 | Profile 2 | Difference |\n")
	sb.WriteString("|---------|-----------|-----------|------------|\n")
	for _, e := range domain.Elements() {
		sb.WriteString(fmt.Sprintf("| %s | %.3f | %.3f | %.3f |\n",
			e, ec.Profile1.Get(e), ec.Profile2.Get(e), ec.Difference.Get(e)))
	}
	sb.WriteString(fmt.Sprintf("\nResonance: %.4f | Dominant: %s / %s", ec.Resonance, ec.Dominant1, ec.Dominant2))
	if ec.SharedDominant {
		sb.WriteString(" (shared)")
	}
	sb.WriteString("\n\n")

	sb.WriteString("## Inter-Aspects\n\n")
	writeAspectTable(&sb, res.InterAspects)

	// Deep dive
	dd := res.DeepDive
	sb.WriteString("## Layers\n\n")
	sb.WriteString(fmt.Sprintf("Overall alignment: %.4f\n\n", dd.OverallAlignment))
	sb.WriteString("| ID | Layer | Profile 1 | Profile 2 | Gap | Alignment | Synergy |\n")
	sb.WriteString("|----|-------|-----------|-----------|-----|-----------|---------|\n")
	for _, l := range dd.Layers {
		syn := ""
		if l.Synergy {
			syn = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %.4f | %.4f | %.4f | %.4f | %s |\n",
			l.LayerID, l.Name, l.Profile1Score, l.Profile2Score, l.Gap, l.Alignment, syn))
	}
	sb.WriteString("\n")

	writeZones(&sb, "Synergy Zones", dd.SynergyZones)
	writeZones(&sb, "Friction Zones", dd.FrictionZones)

	sb.WriteString("## Recommendations\n\n")
	if len(dd.Recommendations) == 0 {
		sb.WriteString("None.\n")
	}
	for _, r := range dd.Recommendations {
		sb.WriteString(fmt.Sprintf("- %s\n", r))
	}
	sb.WriteString("\n")

	return sb.String()
}

// RenderEvolutionMarkdown renders an evolution report as Markdown string.
func RenderEvolutionMarkdown(r *EvolutionReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Evolution Report: %s\n\n", r.UserID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Snapshots: %d\n\n", len(r.Snapshots)))

	sb.WriteString("## Snapshots\n\n")
	if len(r.Snapshots) == 0 {
		sb.WriteString("No snapshots stored.\n\n")
		return sb.String()
	}
	sb.WriteString("| # | Snapshot | Computed | Engine | Birth | Sun | Moon | Asc | Dominant | Aspects |\n")
	sb.WriteString("|---|----------|----------|--------|-------|-----|------|-----|----------|---------|\n")
	for i, s := range r.Snapshots {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s | %s | %d |\n",
			i+1, s.SnapshotID, s.ComputedAt.UTC().Format(time.RFC3339), s.EngineVersion, s.BirthDate,
			s.SunSign, s.MoonSign, s.AscendantSign, s.DominantElement, s.AspectCount))
	}
	sb.WriteString("\n")

	sb.WriteString("## Layer Scores\n\n")
	sb.WriteString("| ID | Layer |")
	for i := range r.Snapshots {
		sb.WriteString(fmt.Sprintf(" #%d |", i+1))
	}
	sb.WriteString(" Delta |\n|----|-------|")
	for range r.Snapshots {
		sb.WriteString("----|")
	}
	sb.WriteString("-------|\n")
	for _, l := range r.Layers {
		sb.WriteString(fmt.Sprintf("| %d | %s |", l.LayerID, l.Name))
		for _, v := range l.Scores {
			if math.IsNaN(v) {
				sb.WriteString(" - |")
				continue
			}
			sb.WriteString(fmt.Sprintf(" %.4f |", v))
		}
		sb.WriteString(fmt.Sprintf(" %+.4f |\n", l.Delta))
	}
	sb.WriteString("\n")

	return sb.String()
}

func writeAspectTable(sb *strings.Builder, aspects []domain.AspectRelation) {
	if len(aspects) == 0 {
		sb.WriteString("No aspects.\n\n")
		return
	}
	sb.WriteString("| Body A | Aspect | Body B | Orb | Phase |\n")
	sb.WriteString("|--------|--------|--------|-----|-------|\n")
	for _, a := range aspects {
		phase := "separating"
		if a.Applying {
			phase = "applying"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.4f | %s |\n", a.BodyA, a.Type, a.BodyB, a.Orb, phase))
	}
	sb.WriteString("\n")
}

func writeElementTable(sb *strings.Builder, t domain.ElementTally) {
	sb.WriteString("| Element | Share |\n")
	sb.WriteString("|---------|-------|\n")
	for _, e := range domain.Elements() {
		sb.WriteString(fmt.Sprintf("| %s | %.3f |\n", e, t.Get(e)))
	}
	sb.WriteString("\n")
}

func writeZones(sb *strings.Builder, title string, zones []domain.Zone) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	if len(zones) == 0 {
		sb.WriteString("None.\n\n")
		return
	}
	for _, z := range zones {
		ids := make([]string, len(z.LayerIDs))
		for i, id := range z.LayerIDs {
			ids[i] = fmt.Sprintf("%d", id)
		}
		sb.WriteString(fmt.Sprintf("- %s (layers %s): %.4f\n", z.Name, strings.Join(ids, ", "), z.Score))
	}
	sb.WriteString("\n")
}
