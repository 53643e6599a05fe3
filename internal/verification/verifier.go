package verification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/idhash"
	"cosmic-blueprint/internal/storage"
)

// ErrSnapshotNotFound is returned when a snapshot ID doesn't exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Engine recomputes a Blueprint from its input.
type Engine interface {
	Compute(in domain.BirthInput) (*domain.Blueprint, error)
}

// VerificationResult contains the result of verifying a single snapshot.
type VerificationResult struct {
	SnapshotID    string            `json:"snapshot_id"`
	UserID        string            `json:"user_id"`
	EngineVersion string            `json:"engine_version"` // version that produced the stored snapshot
	Match         bool              `json:"match"`
	Divergences   []FieldDivergence `json:"divergences"`
}

// VerificationReport contains results for batch verification.
type VerificationReport struct {
	TotalSnapshots     int                  `json:"total_snapshots"`
	MatchedSnapshots   int                  `json:"matched_snapshots"`
	DivergentSnapshots int                  `json:"divergent_snapshots"`
	Results            []VerificationResult `json:"results"`
}

// SnapshotVerifier recomputes stored snapshots and compares them with what was stored.
type SnapshotVerifier struct {
	snapshots storage.SnapshotStore
	engine    Engine
	logger    *zap.Logger
}

// NewSnapshotVerifier creates a new SnapshotVerifier.
func NewSnapshotVerifier(snapshots storage.SnapshotStore, engine Engine, logger *zap.Logger) *SnapshotVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotVerifier{snapshots: snapshots, engine: engine, logger: logger}
}

// VerifySnapshot verifies a single snapshot by ID.
func (v *SnapshotVerifier) VerifySnapshot(ctx context.Context, id string) (*VerificationResult, error) {
	snap, err := v.snapshots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return v.verify(snap)
}

// VerifyAll verifies all stored snapshots. A snapshot whose input no longer
// computes is reported as divergent with an Error field.
func (v *SnapshotVerifier) VerifyAll(ctx context.Context) (*VerificationReport, error) {
	snaps, err := v.snapshots.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &VerificationReport{
		TotalSnapshots: len(snaps),
		Results:        make([]VerificationResult, 0, len(snaps)),
	}

	for _, snap := range snaps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := v.verify(snap)
		if err != nil {
			result = &VerificationResult{
				SnapshotID:    snap.ID,
				UserID:        snap.UserID,
				EngineVersion: snap.EngineVersion,
				Divergences:   []FieldDivergence{{Field: "Error", Expected: nil, Actual: err.Error()}},
			}
		}

		report.Results = append(report.Results, *result)
		if result.Match {
			report.MatchedSnapshots++
		} else {
			report.DivergentSnapshots++
		}
	}

	v.logger.Info("verification complete",
		zap.Int("total", report.TotalSnapshots),
		zap.Int("matched", report.MatchedSnapshots),
		zap.Int("divergent", report.DivergentSnapshots),
	)
	return report, nil
}

func (v *SnapshotVerifier) verify(snap *domain.Snapshot) (*VerificationResult, error) {
	replayed, err := v.engine.Compute(snap.Input)
	if err != nil {
		return nil, fmt.Errorf("recompute snapshot %s: %w", snap.ID, err)
	}

	var divs []FieldDivergence
	if fp := idhash.InputFingerprint(snap.Input); fp != snap.Fingerprint {
		divs = append(divs, FieldDivergence{Field: "Fingerprint", Expected: snap.Fingerprint, Actual: fp})
	}
	divs = append(divs, CompareBlueprints(snap.Blueprint, replayed)...)

	if len(divs) > 0 {
		v.logger.Warn("snapshot diverged",
			zap.String("snapshot_id", snap.ID),
			zap.String("engine_version", snap.EngineVersion),
			zap.Int("divergences", len(divs)),
		)
	}

	return &VerificationResult{
		SnapshotID:    snap.ID,
		UserID:        snap.UserID,
		EngineVersion: snap.EngineVersion,
		Match:         len(divs) == 0,
		Divergences:   divs,
	}, nil
}
