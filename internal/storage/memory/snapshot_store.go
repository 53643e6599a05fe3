package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Snapshot // keyed by id
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.Snapshot),
	}
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if id exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.ID == "" || snap.UserID == "" || snap.Blueprint == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.ID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[snap.ID] = snap.Clone()
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(_ context.Context, id string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return snap.Clone(), nil
}

// GetByUser retrieves snapshots of a user within [from, to], ordered by computed_at ASC, id ASC.
func (s *SnapshotStore) GetByUser(_ context.Context, userID string, from, to time.Time) ([]*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Snapshot
	for _, snap := range s.data {
		if snap.UserID == userID && storage.InRange(snap.ComputedAt, from, to) {
			result = append(result, snap.Clone())
		}
	}

	sortSnapshots(result)
	return result, nil
}

// GetAll retrieves all snapshots ordered by computed_at ASC, id ASC.
func (s *SnapshotStore) GetAll(_ context.Context) ([]*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Snapshot, 0, len(s.data))
	for _, snap := range s.data {
		result = append(result, snap.Clone())
	}

	sortSnapshots(result)
	return result, nil
}

func sortSnapshots(snaps []*domain.Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].ComputedAt.Equal(snaps[j].ComputedAt) {
			return snaps[i].ComputedAt.Before(snaps[j].ComputedAt)
		}
		return snaps[i].ID < snaps[j].ID
	})
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
