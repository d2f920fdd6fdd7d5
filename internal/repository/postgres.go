package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"commonground-api/internal/models"
)

// PostgresRepository implements the candidate, profile, and aggregate stores
// on PostgreSQL. The geohash column's B-tree index provides the ordered range
// scans; the aggregate's version column provides the conditional commit.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// PutActivity inserts or replaces an activity record.
func (r *PostgresRepository) PutActivity(ctx context.Context, a models.Activity) error {
	hours, err := json.Marshal(a.OpenHours)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal open hours: %w", err)
	}
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal metadata: %w", err)
	}

	sql := `
		INSERT INTO activities (id, name, lat, lng, geohash, sociability, physicality, open_hours, tags, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			geohash = EXCLUDED.geohash,
			sociability = EXCLUDED.sociability,
			physicality = EXCLUDED.physicality,
			open_hours = EXCLUDED.open_hours,
			tags = EXCLUDED.tags,
			metadata = EXCLUDED.metadata
	`

	_, err = r.db.Exec(ctx, sql, a.ID, a.Name, a.Latitude, a.Longitude, a.Geohash,
		a.Sociability, a.Physicality, hours, a.Tags, metadata)
	if err != nil {
		return fmt.Errorf("repository: failed to insert activity: %w", err)
	}
	return nil
}

// ScanRange returns all activities whose geohash falls within [start, end],
// both bounds inclusive, ordered by geohash then id.
func (r *PostgresRepository) ScanRange(ctx context.Context, start, end string) ([]models.Activity, error) {
	sql := `
		SELECT id, name, lat, lng, geohash, sociability, physicality, open_hours, tags, metadata
		FROM activities
		WHERE geohash >= $1 AND geohash <= $2
		ORDER BY geohash, id
	`

	rows, err := r.db.Query(ctx, sql, start, end)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute range scan: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var hours, metadata []byte
		err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Latitude,
			&a.Longitude,
			&a.Geohash,
			&a.Sociability,
			&a.Physicality,
			&hours,
			&a.Tags,
			&metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan activity: %w", err)
		}
		if len(hours) > 0 {
			if err := json.Unmarshal(hours, &a.OpenHours); err != nil {
				return nil, fmt.Errorf("repository: failed to unmarshal open hours: %w", err)
			}
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, fmt.Errorf("repository: failed to unmarshal metadata: %w", err)
			}
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return activities, nil
}

// CountActivities returns the number of stored activities.
func (r *PostgresRepository) CountActivities(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count activities: %w", err)
	}
	return count, nil
}

// ReadAggregate returns the global aggregate and its version. An absent row
// reads as the zero aggregate at version 0.
func (r *PostgresRepository) ReadAggregate(ctx context.Context) (models.Aggregate, int64, error) {
	var doc []byte
	var version int64

	err := r.db.QueryRow(ctx,
		`SELECT doc, version FROM global_aggregate WHERE id = 'global'`,
	).Scan(&doc, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Aggregate{}, 0, nil
	}
	if err != nil {
		return models.Aggregate{}, 0, fmt.Errorf("repository: failed to read aggregate: %w", err)
	}

	var agg models.Aggregate
	if err := json.Unmarshal(doc, &agg); err != nil {
		return models.Aggregate{}, 0, fmt.Errorf("repository: failed to unmarshal aggregate: %w", err)
	}
	return agg, version, nil
}

// CommitAggregate writes the aggregate if and only if the stored version
// still equals expectedVersion. A first write (expectedVersion 0) inserts the
// row; losing either race returns ErrVersionConflict.
func (r *PostgresRepository) CommitAggregate(ctx context.Context, agg models.Aggregate, expectedVersion int64) error {
	doc, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal aggregate: %w", err)
	}

	if expectedVersion == 0 {
		tag, err := r.db.Exec(ctx,
			`INSERT INTO global_aggregate (id, doc, version) VALUES ('global', $1, 1)
			 ON CONFLICT (id) DO NOTHING`, doc)
		if err != nil {
			return fmt.Errorf("repository: failed to insert aggregate: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE global_aggregate SET doc = $1, version = version + 1
		 WHERE id = 'global' AND version = $2`, doc, expectedVersion)
	if err != nil {
		return fmt.Errorf("repository: failed to update aggregate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

// GetProfile returns a stored profile, or ErrNotFound.
func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var doc []byte

	err := r.db.QueryRow(ctx, `SELECT doc FROM profiles WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: failed to read profile %s: %w", id, err)
	}

	var profile models.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, fmt.Errorf("repository: failed to unmarshal profile %s: %w", id, err)
	}
	return &profile, nil
}

// PutProfile inserts or replaces a profile document.
func (r *PostgresRepository) PutProfile(ctx context.Context, id string, p models.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal profile: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO profiles (id, doc, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`, id, doc)
	if err != nil {
		return fmt.Errorf("repository: failed to store profile %s: %w", id, err)
	}
	return nil
}
