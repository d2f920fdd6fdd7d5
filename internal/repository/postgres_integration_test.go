//go:build integration

package repository

import (
	"context"
	"testing"

	"commonground-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections"),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	// Same schema the importer creates.
	_, err = pool.Exec(ctx, `
		CREATE TABLE activities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lng DOUBLE PRECISION NOT NULL,
			geohash TEXT NOT NULL,
			sociability DOUBLE PRECISION NOT NULL,
			physicality DOUBLE PRECISION NOT NULL,
			open_hours JSONB,
			tags TEXT[],
			metadata JSONB
		);

		CREATE INDEX activities_geohash_idx ON activities (geohash);

		CREATE TABLE profiles (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE global_aggregate (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			version BIGINT NOT NULL
		);
	`)
	require.NoError(t, err)

	return pool
}

func TestPostgresRepository_ScanRange(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	seed := []models.Activity{
		{ID: "a1", Name: "Trail", Geohash: "9mub1x2yz", Latitude: 33.68, Longitude: -117.82, Sociability: 3, Physicality: 8,
			OpenHours: models.Schedule{"Monday": {{Open: 700, Close: 1900}}}, Tags: []string{"hiking"}},
		{ID: "a2", Name: "Cafe", Geohash: "9mub1x3aa", Latitude: 33.69, Longitude: -117.83, Sociability: 7, Physicality: 2},
		{ID: "a3", Name: "Gym", Geohash: "9mub2abcd", Latitude: 33.70, Longitude: -117.84, Sociability: 5, Physicality: 9},
	}
	for _, a := range seed {
		require.NoError(t, repo.PutActivity(ctx, a))
	}

	tests := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{
			name:     "cell prefix range",
			start:    "9mub1",
			end:      "9mub1~",
			expected: []string{"a1", "a2"},
		},
		{
			name:     "zero-width range hits exact geohash",
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
			assert.Equal(t, tt.expected, ids)
		})
	}

	t.Run("schedule and tags survive the round trip", func(t *testing.T) {
		got, err := repo.ScanRange(ctx, "9mub1x2yz", "9mub1x2yz")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, seed[0].OpenHours, got[0].OpenHours)
		assert.Equal(t, seed[0].Tags, got[0].Tags)
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.CountActivities(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func TestPostgresRepository_Aggregate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	agg, version, err := repo.ReadAggregate(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.Zero(t, agg.TotalUsers)

	first := models.Aggregate{
		AggregatedActivities: map[string]int{"hiking": 1},
		SocialSum:            10,
		TotalUsers:           1,
		AverageSocial:        10,
	}
	require.NoError(t, repo.CommitAggregate(ctx, first, 0))

	// A second insert-or-nothing attempt must lose.
	err = repo.CommitAggregate(ctx, models.Aggregate{TotalUsers: 99}, 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	agg, version, err = repo.ReadAggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, first, agg)

	require.NoError(t, repo.CommitAggregate(ctx, models.Aggregate{TotalUsers: 2}, 1))

	err = repo.CommitAggregate(ctx, models.Aggregate{TotalUsers: 3}, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, version, err = repo.ReadAggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestPostgresRepository_Profiles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	_, err := repo.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	in := models.Profile{
		Name:           "Sam",
		SocialBattery:  6,
		PhysicalEnergy: 8,
		Interests:      []string{"hiking", "yoga"},
		Onboarded:      true,
	}
	require.NoError(t, repo.PutProfile(ctx, "u1", in))

	got, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}
