// Package service coordinates the engine with caching, persistence and metrics.
// Flow: cache lookup → compute → cache store → optional snapshot persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cosmic-blueprint/internal/blueprint"
	"cosmic-blueprint/internal/cache"
	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/idhash"
	"cosmic-blueprint/internal/layers"
	"cosmic-blueprint/internal/observability"
	"cosmic-blueprint/internal/storage"
	"cosmic-blueprint/internal/synastry"
	"cosmic-blueprint/internal/verification"
)

// EngineVersion is stamped on every persisted snapshot.
const EngineVersion = "1.0.0"

// DefaultBatchConcurrency bounds ComputeBatch when Options leaves it unset.
const DefaultBatchConcurrency = 8

var (
	// ErrPersistenceDisabled is returned by operations that need stores when none are configured.
	ErrPersistenceDisabled = errors.New("persistence is not configured")

	// ErrUserIDRequired is returned when persisting without a user ID.
	ErrUserIDRequired = errors.New("user id is required to persist a snapshot")
)

// Engine computes Blueprints and the current sky.
type Engine interface {
	Compute(in domain.BirthInput) (*domain.Blueprint, error)
	Sky(t time.Time) (*domain.SkySnapshot, error)
}

// Options for creating Service.
type Options struct {
	Engine Engine // defaults to blueprint.Default()

	// Optional stores; nil disables persistence.
	Snapshots   storage.SnapshotStore
	LayerScores storage.LayerScoreStore

	Cache   cache.BlueprintCache // optional
	Metrics *observability.Metrics
	Logger  *zap.Logger

	BatchConcurrency int
	Now              func() time.Time
	NewID            func() string // defaults to uuid.NewString
}

// Service is the application layer used by the HTTP API and the CLIs.
// It is safe for concurrent use.
type Service struct {
	engine      Engine
	snapshots   storage.SnapshotStore
	layerScores storage.LayerScoreStore
	cache       cache.BlueprintCache
	metrics     *observability.Metrics
	logger      *zap.Logger
	verifier    *verification.SnapshotVerifier
	concurrency int
	now         func() time.Time
	newID       func() string
}

// New creates a new Service.
func New(opts Options) *Service {
	if opts.Engine == nil {
		opts.Engine = blueprint.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = DefaultBatchConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	s := &Service{
		engine:      opts.Engine,
		snapshots:   opts.Snapshots,
		layerScores: opts.LayerScores,
		cache:       opts.Cache,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		concurrency: opts.BatchConcurrency,
		now:         opts.Now,
		newID:       opts.NewID,
	}
	if s.snapshots != nil {
		s.verifier = verification.NewSnapshotVerifier(s.snapshots, s.engine, s.logger)
	}
	return s
}

// BlueprintResult is a computed Blueprint with its cache and persistence status.
type BlueprintResult struct {
	Blueprint   *domain.Blueprint `json:"blueprint"`
	Fingerprint string            `json:"fingerprint"`
	Cached      bool              `json:"cached"`
	Snapshot    *SnapshotRef      `json:"snapshot,omitempty"`
}

// SnapshotRef identifies a persisted snapshot.
type SnapshotRef struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ComputedAt    time.Time `json:"computed_at"`
	EngineVersion string    `json:"engine_version"`
}

// Blueprint computes (or loads from cache) the Blueprint of in. When persist
// is set the Blueprint and its 15 layer scores are stored for userID.
func (s *Service) Blueprint(ctx context.Context, userID string, in domain.BirthInput, persist bool) (*BlueprintResult, error) {
	if persist {
		if s.snapshots == nil {
			return nil, ErrPersistenceDisabled
		}
		if userID == "" {
			return nil, ErrUserIDRequired
		}
	}

	bp, fp, cached, err := s.compute(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &BlueprintResult{Blueprint: bp, Fingerprint: fp, Cached: cached}
	if !persist {
		return result, nil
	}

	ref, err := s.persist(ctx, userID, fp, in, bp)
	if err != nil {
		return nil, err
	}
	result.Snapshot = ref
	return result, nil
}

// Synastry computes the compatibility of two birth inputs.
func (s *Service) Synastry(ctx context.Context, a, b domain.BirthInput) (*domain.SynastryResult, error) {
	bp1, _, _, err := s.compute(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("profile1: %w", err)
	}
	bp2, _, _, err := s.compute(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("profile2: %w", err)
	}

	start := time.Now()
	result := synastry.ComputeSynastry(bp1, bp2)
	s.metrics.RecordCompute("synastry", observability.OutcomeOK, time.Since(start))
	return &result, nil
}

// Layers computes the 15 layer scores of a single profile.
func (s *Service) Layers(ctx context.Context, in domain.BirthInput) (domain.ProfileLayers, error) {
	bp, _, _, err := s.compute(ctx, in)
	if err != nil {
		return domain.ProfileLayers{}, err
	}
	return layers.Score(bp), nil
}

// Sky returns the positions of all bodies at t.
func (s *Service) Sky(t time.Time) (*domain.SkySnapshot, error) {
	start := time.Now()
	sky, err := s.engine.Sky(t)
	s.metrics.RecordCompute("sky", outcome(err), time.Since(start))
	return sky, err
}

// compute returns the Blueprint of in, consulting the cache first.
// Cache failures are logged and bypassed.
func (s *Service) compute(ctx context.Context, in domain.BirthInput) (*domain.Blueprint, string, bool, error) {
	fp := idhash.InputFingerprint(in)

	if s.cache != nil {
		bp, ok, err := s.cache.Get(ctx, fp)
		switch {
		case err != nil:
			s.metrics.RecordCache(observability.CacheError)
			s.logger.Warn("blueprint cache get failed", zap.String("fingerprint", fp), zap.Error(err))
		case ok:
			s.metrics.RecordCache(observability.CacheHit)
			return bp, fp, true, nil
		default:
			s.metrics.RecordCache(observability.CacheMiss)
		}
	}

	start := time.Now()
	bp, err := s.engine.Compute(in)
	s.metrics.RecordCompute("blueprint", outcome(err), time.Since(start))
	if err != nil {
		return nil, fp, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, fp, bp); err != nil {
			s.logger.Warn("blueprint cache set failed", zap.String("fingerprint", fp), zap.Error(err))
		}
	}
	return bp, fp, false, nil
}

func (s *Service) persist(ctx context.Context, userID, fp string, in domain.BirthInput, bp *domain.Blueprint) (*SnapshotRef, error) {
	snap := &domain.Snapshot{
		ID:          s.newID(),
		UserID:      userID,
		Fingerprint: fp,
		Input:       in,
		Blueprint:   bp,
		// ClickHouse keeps milliseconds; truncate so both stores agree.
		ComputedAt:    s.now().UTC().Truncate(time.Millisecond),
		EngineVersion: EngineVersion,
	}

	start := time.Now()
	err := s.snapshots.Insert(ctx, snap)
	s.metrics.RecordDBQuery("snapshots", "insert", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}

	stored := 0
	if s.layerScores != nil {
		scores := layers.Score(bp).Scores
		records := make([]*domain.LayerScoreRecord, len(scores))
		for i, sc := range scores {
			records[i] = &domain.LayerScoreRecord{
				SnapshotID: snap.ID,
				UserID:     userID,
				LayerID:    sc.LayerID,
				LayerName:  sc.Name,
				Score:      sc.Score,
				ComputedAt: snap.ComputedAt,
			}
		}

		start = time.Now()
		err = s.layerScores.InsertBulk(ctx, records)
		s.metrics.RecordDBQuery("layer_scores", "insert_bulk", time.Since(start), err)
		if err != nil {
			// The snapshot is already stored; the report generator rescores
			// snapshots without layer scores.
			s.logger.Warn("layer score write failed, snapshot kept without scores",
				zap.String("snapshot_id", snap.ID),
				zap.String("user_id", userID),
				zap.Error(err),
			)
		} else {
			stored = len(records)
		}
	}

	s.metrics.RecordSnapshotStored(stored)
	s.logger.Info("snapshot stored",
		zap.String("snapshot_id", snap.ID),
		zap.String("user_id", userID),
		zap.String("fingerprint", fp),
	)

	return &SnapshotRef{
		ID:            snap.ID,
		UserID:        userID,
		ComputedAt:    snap.ComputedAt,
		EngineVersion: snap.EngineVersion,
	}, nil
}

// outcome maps a compute error to its metric label.
func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, domain.ErrInvalidTime):
		return observability.OutcomeInvalidTime
	case errors.Is(err, domain.ErrPhysicsModel):
		return observability.OutcomePhysicsError
	default:
		return observability.OutcomeError
	}
}
