package clickhouse

import (
	"context"
	"fmt"
	"time"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/storage"
)

// LayerScoreStore implements storage.LayerScoreStore using ClickHouse.
type LayerScoreStore struct {
	conn *Conn
}

// NewLayerScoreStore creates a new LayerScoreStore.
func NewLayerScoreStore(conn *Conn) *LayerScoreStore {
	return &LayerScoreStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LayerScoreStore = (*LayerScoreStore)(nil)

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *LayerScoreStore) InsertBulk(ctx context.Context, records []*domain.LayerScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.SnapshotID == "" || r.LayerID < 1 || r.LayerID > 255 {
			return storage.ErrInvalidInput
		}
		key := fmt.Sprintf("%s|%d", r.SnapshotID, r.LayerID)
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	// MergeTree does not enforce uniqueness; check existing rows explicitly
	for _, r := range records {
		exists, err := s.exists(ctx, r.SnapshotID, r.LayerID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO layer_scores (
			snapshot_id, user_id, layer_id, layer_name, score, computed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.SnapshotID, r.UserID, uint8(r.LayerID), r.LayerName, r.Score, r.ComputedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByUser retrieves all records of a user, ordered by computed_at ASC, layer_id ASC.
func (s *LayerScoreStore) GetByUser(ctx context.Context, userID string) ([]*domain.LayerScoreRecord, error) {
	query := `
		SELECT snapshot_id, user_id, layer_id, layer_name, score, computed_at
		FROM layer_scores FINAL
		WHERE user_id = ?
		ORDER BY computed_at ASC, snapshot_id ASC, layer_id ASC
	`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query layer scores by user: %w", err)
	}
	defer rows.Close()

	return scanLayerScores(rows)
}

// GetBySnapshot retrieves the records of one snapshot, ordered by layer_id ASC.
func (s *LayerScoreStore) GetBySnapshot(ctx context.Context, snapshotID string) ([]*domain.LayerScoreRecord, error) {
	query := `
		SELECT snapshot_id, user_id, layer_id, layer_name, score, computed_at
		FROM layer_scores FINAL
		WHERE snapshot_id = ?
		ORDER BY layer_id ASC
	`

	rows, err := s.conn.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query layer scores by snapshot: %w", err)
	}
	defer rows.Close()

	return scanLayerScores(rows)
}

// exists checks if a record with the given key exists.
func (s *LayerScoreStore) exists(ctx context.Context, snapshotID string, layerID int) (bool, error) {
	query := `
		SELECT count(*) FROM layer_scores FINAL
		WHERE snapshot_id = ? AND layer_id = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, snapshotID, uint8(layerID)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanLayerScores scans multiple rows into a slice.
func scanLayerScores(rows chRows) ([]*domain.LayerScoreRecord, error) {
	var records []*domain.LayerScoreRecord

	for rows.Next() {
		var (
			r          domain.LayerScoreRecord
			layerID    uint8
			computedAt time.Time
		)
		if err := rows.Scan(&r.SnapshotID, &r.UserID, &layerID, &r.LayerName, &r.Score, &computedAt); err != nil {
			return nil, fmt.Errorf("scan layer score row: %w", err)
		}
		r.LayerID = int(layerID)
		r.ComputedAt = computedAt.UTC()
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate layer score rows: %w", err)
	}
	return records, nil
}
