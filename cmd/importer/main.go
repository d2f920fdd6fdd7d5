package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"commonground-api/internal/config"
	"commonground-api/internal/geo"
	"commonground-api/internal/models"
	"commonground-api/internal/repository"
)

// activityStore is the slice of the repository the importer needs.
type activityStore interface {
	PutActivity(ctx context.Context, a models.Activity) error
	CountActivities(ctx context.Context) (int, error)
}

func main() {
	file := flag.String("file", "", "Path to the activities JSON file to import")
	configDir := flag.String("config", "configs", "Path to the config directory")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	activities, err := parseActivities(*file)
	if err != nil {
		fmt.Printf("Error parsing activities: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(activities))

	// Load config
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store activityStore
	switch cfg.StorageDriver {
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerDir))
		if err != nil {
			fmt.Printf("Error opening badger at %s: %v\n", cfg.BadgerDir, err)
			os.Exit(1)
		}
		defer db.Close()
		store = repository.NewBadgerRepository(db)
	case "postgres":
		conn, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := createTablesIfNotExist(ctx, conn); err != nil {
			fmt.Printf("Error creating tables: %v\n", err)
			os.Exit(1)
		}
		store = repository.NewPostgresRepository(conn)
	default:
		fmt.Printf("Error: unknown storage driver %q\n", cfg.StorageDriver)
		os.Exit(1)
	}

	// Insert records
	imported, skipped := 0, 0
	for _, a := range activities {
		if !geo.ValidCoordinates(a.Latitude, a.Longitude) {
			fmt.Printf("Skipping %q: coordinates (%f, %f) out of range\n", a.Name, a.Latitude, a.Longitude)
			skipped++
			continue
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.Geohash = geo.Encode(a.Latitude, a.Longitude, geo.StorePrecision)

		if err := store.PutActivity(ctx, a); err != nil {
			fmt.Printf("Error inserting %q: %v\n", a.Name, err)
			os.Exit(1)
		}
		imported++
	}

	// Verify data
	count, err := store.CountActivities(ctx)
	if err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}
	if count < imported {
		fmt.Printf("Error: store reports %d activities, expected at least %d\n", count, imported)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records (%d skipped), store now holds %d\n", imported, skipped, count)
}

func parseActivities(path string) ([]models.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var activities []models.Activity
	if err := json.NewDecoder(f).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return activities, nil
}

func createTablesIfNotExist(ctx context.Context, conn *pgxpool.Pool) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activities (
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

		CREATE INDEX IF NOT EXISTS activities_geohash_idx ON activities (geohash);

		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS global_aggregate (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL,
			version BIGINT NOT NULL
		);
	`)
	return err
}
