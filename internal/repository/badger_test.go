package repository

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonground-api/internal/models"
)

func newTestRepo(t *testing.T) *BadgerRepository {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return NewBadgerRepository(db)
}

func seedActivities(t *testing.T, repo *BadgerRepository) []models.Activity {
	activities := []models.Activity{
		{ID: "a1", Name: "Trail", Geohash: "9mub1x2yz", Latitude: 33.68, Longitude: -117.82, Sociability: 3, Physicality: 8},
		{ID: "a2", Name: "Cafe", Geohash: "9mub1x3aa", Latitude: 33.69, Longitude: -117.83, Sociability: 7, Physicality: 2},
		{ID: "a3", Name: "Gym", Geohash: "9mub2abcd", Latitude: 33.70, Longitude: -117.84, Sociability: 5, Physicality: 9},
		{ID: "a4", Name: "Library", Geohash: "9muc00000", Latitude: 33.71, Longitude: -117.85, Sociability: 1, Physicality: 1},
	}
	for _, a := range activities {
		require.NoError(t, repo.PutActivity(context.Background(), a))
	}
	return activities
}

func TestBadgerScanRange(t *testing.T) {
	repo := newTestRepo(t)
	seedActivities(t, repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{
			name:     "covers a cell prefix",
			start:    "9mub1",
			end:      "9mub1~",
			expected: []string{"a1", "a2"},
		},
		{
			name:     "covers everything",
			start:    "9",
			end:      "9~",
			expected: []string{"a1", "a2", "a3", "a4"},
		},
		{
			name:     "zero-width range hits exact key",
			start:    "9mub2abcd",
			end:      "9mub2abcd",
			expected: []string{"a3"},
		},
		{
			name:     "empty interval",
			start:    "9mud",
			end:      "9mud~",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ScanRange(ctx, tt.start, tt.end)
			require.NoError(t, err)

			ids := []string{}
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			// Key order is geohash order, so ids come back sorted.
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestBadgerScanRangePreservesRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := models.Activity{
		ID:          "a9",
		Name:        "Climbing Wall",
		Geohash:     "9mub55555",
		Latitude:    33.655,
		Longitude:   -117.755,
		Sociability: 6,
		Physicality: 9,
		OpenHours:   models.Schedule{"Monday": {{Open: 900, Close: 2200}}},
		Tags:        []string{"Rock Climbing"},
	}
	require.NoError(t, repo.PutActivity(ctx, in))

	got, err := repo.ScanRange(ctx, "9mub5", "9mub5~")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, in, got[0])
}

func TestBadgerCountActivities(t *testing.T) {
	repo := newTestRepo(t)
	seedActivities(t, repo)

	count, err := repo.CountActivities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestBadgerAggregate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("absent reads as zero at version zero", func(t *testing.T) {
		agg, version, err := repo.ReadAggregate(ctx)
		require.NoError(t, err)
		assert.Zero(t, version)
		assert.Zero(t, agg.TotalUsers)
	})

	t.Run("first commit then read back", func(t *testing.T) {
		in := models.Aggregate{
			AggregatedActivities: map[string]int{"hiking": 1},
			SocialSum:            10,
			TotalUsers:           1,
			AverageSocial:        10,
		}
		require.NoError(t, repo.CommitAggregate(ctx, in, 0))

		agg, version, err := repo.ReadAggregate(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), version)
		assert.Equal(t, in, agg)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		err := repo.CommitAggregate(ctx, models.Aggregate{TotalUsers: 99}, 0)
		assert.ErrorIs(t, err, ErrVersionConflict)

		// The conflicting write must not have landed.
		agg, version, err := repo.ReadAggregate(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), version)
		assert.Equal(t, 1, agg.TotalUsers)
	})

	t.Run("current version commits", func(t *testing.T) {
		err := repo.CommitAggregate(ctx, models.Aggregate{TotalUsers: 2}, 1)
		require.NoError(t, err)

		agg, version, err := repo.ReadAggregate(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), version)
		assert.Equal(t, 2, agg.TotalUsers)
	})
}

func TestBadgerProfiles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("missing profile", func(t *testing.T) {
		_, err := repo.GetProfile(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		in := models.Profile{
			Name:           "Sam",
			SocialBattery:  6,
			PhysicalEnergy: 8,
			Interests:      []string{"Hiking", "Yoga"},
			Onboarded:      true,
		}
		require.NoError(t, repo.PutProfile(ctx, "u1", in))

		got, err := repo.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, in, *got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, repo.PutProfile(ctx, "u1", models.Profile{SocialBattery: 2}))

		got, err := repo.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2.0, got.SocialBattery)
	})
}
