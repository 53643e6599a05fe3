// Package blueprint assembles a Blueprint from birth data by composing the
// time resolver, ephemeris, angular frame, classifier and aspect detector.
package blueprint

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"cosmic-blueprint/internal/aspect"
	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/ephemeris"
	"cosmic-blueprint/internal/frame"
	"cosmic-blueprint/internal/instant"
	"cosmic-blueprint/internal/zodiac"
)

// Anomaly kinds reported to the AnomalyRecorder.
const (
	AnomalyHouseFallback  = "house_fallback"
	AnomalyPolarAscendant = "polar_ascendant"
)

// polarLimit is the latitude beyond which some ecliptic degrees never rise.
const polarLimit = 90 - frame.Obliquity

// PositionSource provides body longitudes and speeds.
type PositionSource interface {
	Longitude(body domain.Body, t time.Time) (float64, error)
	Sample(body domain.Body, t time.Time) (ephemeris.Sample, error)
}

// InstantResolver converts birth data to an absolute instant.
type InstantResolver interface {
	Resolve(in domain.BirthInput) (domain.ResolvedInstant, error)
}

// AnomalyRecorder counts defensive fallbacks that do not fail a computation.
type AnomalyRecorder interface {
	RecordAnomaly(kind string)
}

// Options for creating an Assembler.
type Options struct {
	Resolver  InstantResolver // required
	Positions PositionSource  // defaults to ephemeris.New()
	Logger    *zap.Logger
	Anomalies AnomalyRecorder // optional
}

// Assembler computes Blueprints. It holds no mutable state and is safe for
// concurrent use.
type Assembler struct {
	resolver  InstantResolver
	positions PositionSource
	logger    *zap.Logger
	anomalies AnomalyRecorder
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	if opts.Positions == nil {
		opts.Positions = ephemeris.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Assembler{
		resolver:  opts.Resolver,
		positions: opts.Positions,
		logger:    opts.Logger,
		anomalies: opts.Anomalies,
	}
}

// Compute returns the Blueprint of a BirthInput.
// Fails with *domain.InvalidTimeError or *domain.PhysicsModelError; a
// Blueprint is never returned partially.
func (a *Assembler) Compute(in domain.BirthInput) (*domain.Blueprint, error) {
	resolved, err := a.resolver.Resolve(in)
	if err != nil {
		return nil, err
	}
	return a.ComputeAt(in, resolved)
}

// ComputeAt assembles a Blueprint for an already resolved instant.
func (a *Assembler) ComputeAt(in domain.BirthInput, resolved domain.ResolvedInstant) (*domain.Blueprint, error) {
	at := resolved.UTC

	planets, points, err := a.sampleBodies(at)
	if err != nil {
		return nil, err
	}

	fr := frame.Compute(at, in.Latitude, in.Longitude)
	if math.Abs(in.Latitude) > polarLimit {
		a.logger.Warn("ascendant above polar circle may be the descendant",
			zap.Float64("latitude", in.Latitude),
			zap.Float64("ascendant", fr.Ascendant),
		)
		a.recordAnomaly(AnomalyPolarAscendant)
	}

	for i := range planets {
		house, ok := zodiac.HouseOf(planets[i].Longitude, fr.Cusps)
		if !ok {
			a.logger.Warn("longitude matched no house interval",
				zap.Stringer("body", planets[i].Body),
				zap.Float64("longitude", planets[i].Longitude),
				zap.Float64s("cusps", fr.Cusps[:]),
			)
			a.recordAnomaly(AnomalyHouseFallback)
		}
		planets[i].House = house
	}

	bp := &domain.Blueprint{
		Input:             in,
		InstantUTC:        at,
		Timezone:          resolved.Timezone,
		Planets:           planets,
		Aspects:           aspect.Detect(points),
		LocalSiderealTime: fr.LocalSiderealTime,
		Ascendant:         fr.Ascendant,
		Midheaven:         fr.Midheaven,
		AscendantSign:     zodiac.SignOf(fr.Ascendant),
		MidheavenSign:     zodiac.SignOf(fr.Midheaven),
		HouseCusps:        fr.Cusps,
		ElementTally:      elementTally(planets),
		HouseDistribution: houseDistribution(planets),
	}
	if bp.Aspects == nil {
		bp.Aspects = []domain.AspectRelation{}
	}
	return bp, nil
}

// Sky returns every body's position at t without an observer frame.
func (a *Assembler) Sky(t time.Time) (*domain.SkySnapshot, error) {
	planets, _, err := a.sampleBodies(t.UTC())
	if err != nil {
		return nil, err
	}
	return &domain.SkySnapshot{At: t.UTC(), Planets: planets}, nil
}

// sampleBodies evaluates all bodies at t and one aspect step later.
// Houses are left unset.
func (a *Assembler) sampleBodies(t time.Time) ([]domain.PlanetPosition, []aspect.Point, error) {
	bodies := domain.Bodies()
	planets := make([]domain.PlanetPosition, 0, len(bodies))
	points := make([]aspect.Point, 0, len(bodies))
	later := t.Add(aspect.ApplyingStep)

	for _, body := range bodies {
		s, err := a.positions.Sample(body, t)
		if err != nil {
			return nil, nil, err
		}
		future, err := a.positions.Longitude(body, later)
		if err != nil {
			return nil, nil, err
		}

		planets = append(planets, domain.PlanetPosition{
			Body:             body,
			Longitude:        s.Longitude,
			Sign:             zodiac.SignOf(s.Longitude),
			DegreeWithinSign: zodiac.DegreeWithinSign(s.Longitude),
			Speed:            s.Speed,
			Retrograde:       s.Speed < 0,
		})
		points = append(points, aspect.Point{Body: body, Now: s.Longitude, Future: future})
	}
	return planets, points, nil
}

func (a *Assembler) recordAnomaly(kind string) {
	if a.anomalies != nil {
		a.anomalies.RecordAnomaly(kind)
	}
}

func elementTally(planets []domain.PlanetPosition) domain.ElementTally {
	var counts [domain.ElementCount]int
	for _, p := range planets {
		counts[p.Sign.Element()]++
	}
	total := float64(domain.BodyCount)
	return domain.ElementTally{
		Fire:  round3(float64(counts[domain.Fire]) / total),
		Earth: round3(float64(counts[domain.Earth]) / total),
		Air:   round3(float64(counts[domain.Air]) / total),
		Water: round3(float64(counts[domain.Water]) / total),
	}
}

func houseDistribution(planets []domain.PlanetPosition) [12]float64 {
	var counts [12]int
	for _, p := range planets {
		if p.House >= 1 && p.House <= 12 {
			counts[p.House-1]++
		}
	}
	var dist [12]float64
	for i, c := range counts {
		dist[i] = round3(float64(c) / float64(domain.BodyCount))
	}
	return dist
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

var (
	defaultOnce      sync.Once
	defaultAssembler *Assembler
)

// Default returns a process-wide Assembler backed by the tzf timezone lookup.
// If the lookup cannot be loaded, inputs without a timezone fall back to UTC.
func Default() *Assembler {
	defaultOnce.Do(func() {
		var lookup instant.ZoneLookup
		if l, err := instant.NewTZFLookup(); err == nil {
			lookup = l
		}
		defaultAssembler = New(Options{Resolver: instant.NewResolver(lookup, nil)})
	})
	return defaultAssembler
}

// ComputeBlueprint computes the Blueprint of a BirthInput with the default Assembler.
func ComputeBlueprint(in domain.BirthInput) (*domain.Blueprint, error) {
	return Default().Compute(in)
}
