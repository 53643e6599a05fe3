package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
// Input and Blueprint are stored as JSONB.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `id, user_id, fingerprint, input, blueprint, computed_at, engine_version`

// Insert adds a new snapshot. Returns ErrDuplicateKey if id exists.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.ID == "" || snap.UserID == "" || snap.Blueprint == nil {
		return storage.ErrInvalidInput
	}

	input, err := json.Marshal(snap.Input)
	if err != nil {
		return fmt.Errorf("encode snapshot input: %w", err)
	}
	bp, err := json.Marshal(snap.Blueprint)
	if err != nil {
		return fmt.Errorf("encode snapshot blueprint: %w", err)
	}

	query := `
		INSERT INTO blueprint_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.pool.Exec(ctx, query,
		snap.ID, snap.UserID, snap.Fingerprint, input, bp, snap.ComputedAt.UTC(), snap.EngineVersion,
	)
	if err != nil {
		return storeError("insert snapshot", err)
	}
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM blueprint_snapshots WHERE id = $1`

	snap, err := scanSnapshot(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("get snapshot by id", err)
	}
	return snap, nil
}

// GetByUser retrieves snapshots of a user within [from, to], ordered by computed_at ASC, id ASC.
func (s *SnapshotStore) GetByUser(ctx context.Context, userID string, from, to time.Time) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM blueprint_snapshots
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR computed_at >= $2)
		  AND ($3::timestamptz IS NULL OR computed_at <= $3)
		ORDER BY computed_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID, nullableTime(from), nullableTime(to))
	if err != nil {
		return nil, fmt.Errorf("get snapshots by user: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetAll retrieves all snapshots ordered by computed_at ASC, id ASC.
func (s *SnapshotStore) GetAll(ctx context.Context) ([]*domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM blueprint_snapshots ORDER BY computed_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

// scanSnapshot scans a single row into a Snapshot.
func scanSnapshot(row pgx.Row) (*domain.Snapshot, error) {
	var (
		snap       domain.Snapshot
		input, bp  []byte
		computedAt time.Time
	)

	err := row.Scan(&snap.ID, &snap.UserID, &snap.Fingerprint, &input, &bp, &computedAt, &snap.EngineVersion)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(input, &snap.Input); err != nil {
		return nil, fmt.Errorf("decode snapshot input: %w", err)
	}
	snap.Blueprint = &domain.Blueprint{}
	if err := json.Unmarshal(bp, snap.Blueprint); err != nil {
		return nil, fmt.Errorf("decode snapshot blueprint: %w", err)
	}
	snap.ComputedAt = computedAt.UTC()

	return &snap, nil
}

// scanSnapshots scans multiple rows into a slice of Snapshot.
func scanSnapshots(rows pgx.Rows) ([]*domain.Snapshot, error) {
	var snaps []*domain.Snapshot

	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snaps, nil
}
