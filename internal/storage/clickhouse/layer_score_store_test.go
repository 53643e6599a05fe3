package clickhouse_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/storage"
	"cosmic-blueprint/internal/storage/clickhouse"
)

func testLayerRecords(snapshotID, userID string, computedAt time.Time) []*domain.LayerScoreRecord {
	records := make([]*domain.LayerScoreRecord, 0, 15)
	for id := 15; id >= 1; id-- {
		records = append(records, &domain.LayerScoreRecord{
			SnapshotID: snapshotID,
			UserID:     userID,
			LayerID:    id,
			LayerName:  "layer",
			Score:      float64(id) / 16,
			ComputedAt: computedAt,
		})
	}
	return records
}

func TestLayerScoreStore_InsertBulkAndQuery(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewLayerScoreStore(conn)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 30, 0, 250000000, time.UTC)

	require.NoError(t, store.InsertBulk(ctx, testLayerRecords("s2", "u1", base.Add(time.Hour))))
	require.NoError(t, store.InsertBulk(ctx, testLayerRecords("s1", "u1", base)))
	require.NoError(t, store.InsertBulk(ctx, testLayerRecords("s3", "u2", base)))

	series, err := store.GetByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, series, 30)

	assert.Equal(t, "s1", series[0].SnapshotID)
	assert.Equal(t, 1, series[0].LayerID)
	assert.InDelta(t, 1.0/16, series[0].Score, 1e-12)
	assert.True(t, base.Equal(series[0].ComputedAt))
	assert.Equal(t, "s2", series[15].SnapshotID)
	assert.Equal(t, 1, series[15].LayerID)

	bySnapshot, err := store.GetBySnapshot(ctx, "s3")
	require.NoError(t, err)
	require.Len(t, bySnapshot, 15)
	for i, r := range bySnapshot {
		assert.Equal(t, i+1, r.LayerID)
		assert.Equal(t, "u2", r.UserID)
	}
}

func TestLayerScoreStore_Duplicates(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewLayerScoreStore(conn)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, store.InsertBulk(ctx, testLayerRecords("s1", "u1", now)))
	assert.ErrorIs(t, store.InsertBulk(ctx, testLayerRecords("s1", "u1", now)), storage.ErrDuplicateKey)

	batch := testLayerRecords("s2", "u1", now)
	batch = append(batch, batch[0])
	assert.ErrorIs(t, store.InsertBulk(ctx, batch), storage.ErrDuplicateKey)

	got, err := store.GetBySnapshot(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, got)

	invalid := []*domain.LayerScoreRecord{{SnapshotID: "s4", LayerID: 0}}
	assert.ErrorIs(t, store.InsertBulk(ctx, invalid), storage.ErrInvalidInput)
}
