package storage

import (
	"context"
	"time"

	"cosmic-blueprint/internal/domain"
)

// SnapshotStore provides access to blueprint_snapshots storage.
type SnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, s *domain.Snapshot) error

	// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)

	// GetByUser retrieves snapshots of a user computed within [from, to] (inclusive),
	// ordered by computed_at ASC, id ASC. A zero bound is unbounded.
	GetByUser(ctx context.Context, userID string, from, to time.Time) ([]*domain.Snapshot, error)

	// GetAll retrieves all snapshots ordered by computed_at ASC, id ASC.
	GetAll(ctx context.Context) ([]*domain.Snapshot, error)
}

// LayerScoreStore provides access to layer_scores storage.
type LayerScoreStore interface {
	// InsertBulk adds multiple records. Fails entire batch on duplicate (snapshot_id, layer_id).
	InsertBulk(ctx context.Context, records []*domain.LayerScoreRecord) error

	// GetByUser retrieves all records of a user, ordered by computed_at ASC, layer_id ASC.
	GetByUser(ctx context.Context, userID string) ([]*domain.LayerScoreRecord, error)

	// GetBySnapshot retrieves the records of one snapshot, ordered by layer_id ASC.
	GetBySnapshot(ctx context.Context, snapshotID string) ([]*domain.LayerScoreRecord, error)
}
