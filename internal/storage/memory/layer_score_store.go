package memory

import (
	"context"
	"sort"
	"sync"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/storage"
)

// layerScoreKey is the composite key for layer score records.
type layerScoreKey struct {
	SnapshotID string
	LayerID    int
}

// LayerScoreStore is an in-memory implementation of storage.LayerScoreStore.
type LayerScoreStore struct {
	mu   sync.RWMutex
	data map[layerScoreKey]*domain.LayerScoreRecord
}

// NewLayerScoreStore creates a new in-memory layer score store.
func NewLayerScoreStore() *LayerScoreStore {
	return &LayerScoreStore{
		data: make(map[layerScoreKey]*domain.LayerScoreRecord),
	}
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *LayerScoreStore) InsertBulk(_ context.Context, records []*domain.LayerScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[layerScoreKey]struct{}, len(records))

	for _, r := range records {
		if r == nil || r.SnapshotID == "" || r.LayerID < 1 || r.LayerID > 255 {
			return storage.ErrInvalidInput
		}
		key := layerScoreKey{SnapshotID: r.SnapshotID, LayerID: r.LayerID}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range records {
		copy := *r
		s.data[layerScoreKey{SnapshotID: r.SnapshotID, LayerID: r.LayerID}] = &copy
	}
	return nil
}

// GetByUser retrieves all records of a user, ordered by computed_at ASC, layer_id ASC.
func (s *LayerScoreStore) GetByUser(_ context.Context, userID string) ([]*domain.LayerScoreRecord, error) {
	return s.filter(func(r *domain.LayerScoreRecord) bool { return r.UserID == userID }), nil
}

// GetBySnapshot retrieves the records of one snapshot, ordered by layer_id ASC.
func (s *LayerScoreStore) GetBySnapshot(_ context.Context, snapshotID string) ([]*domain.LayerScoreRecord, error) {
	return s.filter(func(r *domain.LayerScoreRecord) bool { return r.SnapshotID == snapshotID }), nil
}

func (s *LayerScoreStore) filter(keep func(*domain.LayerScoreRecord) bool) []*domain.LayerScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LayerScoreRecord
	for _, r := range s.data {
		if keep(r) {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ComputedAt.Equal(result[j].ComputedAt) {
			return result[i].ComputedAt.Before(result[j].ComputedAt)
		}
		if result[i].SnapshotID != result[j].SnapshotID {
			return result[i].SnapshotID < result[j].SnapshotID
		}
		return result[i].LayerID < result[j].LayerID
	})
	return result
}

var _ storage.LayerScoreStore = (*LayerScoreStore)(nil)
