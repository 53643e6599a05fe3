package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/storage"
	"cosmic-blueprint/internal/storage/migrations"
	"cosmic-blueprint/internal/storage/postgres"
)

func testSnapshot(id, userID string, computedAt time.Time) *domain.Snapshot {
	return &domain.Snapshot{
		ID:          id,
		UserID:      userID,
		Fingerprint: "fp-" + id,
		Input: domain.BirthInput{
			Date:      "1990-09-04",
			Time:      "12:45",
			Location:  "Pretoria",
			Latitude:  -25.7479,
			Longitude: 28.2293,
			Timezone:  "Africa/Johannesburg",
		},
		Blueprint: &domain.Blueprint{
			Planets: []domain.PlanetPosition{
				{Body: domain.Sun, Longitude: 161.7215, Sign: domain.Virgo, DegreeWithinSign: 11.7215, House: 9, Speed: 0.0405},
				{Body: domain.Moon, Longitude: 72.125, Sign: domain.Gemini, DegreeWithinSign: 12.125, House: 6, Speed: 0.55},
			},
			Aspects: []domain.AspectRelation{
				{BodyA: domain.Sun, BodyB: domain.Moon, Type: domain.AspectSquare, Orb: 0.4035, Applying: true},
			},
			Ascendant: 265.31,
			Midheaven: 183.02,
		},
		ComputedAt:    computedAt,
		EngineVersion: "test",
	}
}

func TestSnapshotStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewSnapshotStore(pool)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)

	want := testSnapshot("7b1f3a7e-0000-4000-8000-000000000001", "u1", now)
	require.NoError(t, store.Insert(ctx, want))

	got, err := store.GetByID(ctx, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Fingerprint, got.Fingerprint)
	assert.Equal(t, want.Input, got.Input)
	assert.Equal(t, want.Blueprint, got.Blueprint)
	assert.True(t, want.ComputedAt.Equal(got.ComputedAt))
	assert.Equal(t, "test", got.EngineVersion)
}

func TestSnapshotStore_DuplicateAndNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewSnapshotStore(pool)
	ctx := context.Background()
	snap := testSnapshot("s1", "u1", time.Now().UTC().Truncate(time.Millisecond))

	require.NoError(t, store.Insert(ctx, snap))
	assert.ErrorIs(t, store.Insert(ctx, snap), storage.ErrDuplicateKey)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, store.Insert(ctx, &domain.Snapshot{ID: "x"}), storage.ErrInvalidInput)
}

func TestSnapshotStore_GetByUserRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewSnapshotStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testSnapshot("c", "u1", base.Add(2*time.Hour))))
	require.NoError(t, store.Insert(ctx, testSnapshot("b", "u1", base)))
	require.NoError(t, store.Insert(ctx, testSnapshot("a", "u1", base)))
	require.NoError(t, store.Insert(ctx, testSnapshot("d", "u2", base.Add(time.Hour))))

	all, err := store.GetByUser(ctx, "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	// Bounds are inclusive.
	ranged, err := store.GetByUser(ctx, "u1", base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "c", ranged[0].ID)

	everyone, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, everyone, 4)
}

func TestRunPostgresMigrations_Idempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, migrations.RunPostgresMigrations(context.Background(), pool))
}
