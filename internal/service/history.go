package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/storage"
	"cosmic-blueprint/internal/verification"
)

// DiffResult compares two stored snapshots.
type DiffResult struct {
	FromID      string                         `json:"from_id"`
	ToID        string                         `json:"to_id"`
	Identical   bool                           `json:"identical"`
	Divergences []verification.FieldDivergence `json:"divergences"`
}

// History returns the snapshots of a user computed within [from, to].
// A zero bound is unbounded.
func (s *Service) History(ctx context.Context, userID string, from, to time.Time) ([]*domain.Snapshot, error) {
	if s.snapshots == nil {
		return nil, ErrPersistenceDisabled
	}

	start := time.Now()
	snaps, err := s.snapshots.GetByUser(ctx, userID, from, to)
	s.metrics.RecordDBQuery("snapshots", "get_by_user", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return snaps, nil
}

// Evolution returns the layer score series of a user ordered by computed_at, layer_id.
func (s *Service) Evolution(ctx context.Context, userID string) ([]*domain.LayerScoreRecord, error) {
	if s.layerScores == nil {
		return nil, ErrPersistenceDisabled
	}

	start := time.Now()
	records, err := s.layerScores.GetByUser(ctx, userID)
	s.metrics.RecordDBQuery("layer_scores", "get_by_user", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load evolution: %w", err)
	}
	return records, nil
}

// Diff compares the Blueprints of two stored snapshots field by field.
// Returns an error wrapping storage.ErrNotFound when either is missing.
func (s *Service) Diff(ctx context.Context, fromID, toID string) (*DiffResult, error) {
	if s.snapshots == nil {
		return nil, ErrPersistenceDisabled
	}

	from, err := s.snapshot(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.snapshot(ctx, toID)
	if err != nil {
		return nil, err
	}

	divs := verification.CompareBlueprints(from.Blueprint, to.Blueprint)
	if divs == nil {
		divs = []verification.FieldDivergence{}
	}
	return &DiffResult{
		FromID:      fromID,
		ToID:        toID,
		Identical:   len(divs) == 0,
		Divergences: divs,
	}, nil
}

// Verify recomputes a stored snapshot and reports divergences.
func (s *Service) Verify(ctx context.Context, id string) (*verification.VerificationResult, error) {
	if s.verifier == nil {
		return nil, ErrPersistenceDisabled
	}
	result, err := s.verifier.VerifySnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, verification.ErrSnapshotNotFound) {
			return nil, fmt.Errorf("snapshot %s: %w", id, storage.ErrNotFound)
		}
		return nil, err
	}

	matched, divergent := 1, 0
	if !result.Match {
		matched, divergent = 0, 1
	}
	s.metrics.RecordVerification(matched, divergent, s.now())
	return result, nil
}

// VerifyAll recomputes every stored snapshot.
func (s *Service) VerifyAll(ctx context.Context) (*verification.VerificationReport, error) {
	if s.verifier == nil {
		return nil, ErrPersistenceDisabled
	}
	report, err := s.verifier.VerifyAll(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVerification(report.MatchedSnapshots, report.DivergentSnapshots, s.now())
	return report, nil
}

func (s *Service) snapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	start := time.Now()
	snap, err := s.snapshots.GetByID(ctx, id)
	s.metrics.RecordDBQuery("snapshots", "get_by_id", time.Since(start), err)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("snapshot %s: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	return snap, nil
}
