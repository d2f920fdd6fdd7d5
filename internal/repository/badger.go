package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"commonground-api/internal/models"
)

// Key prefixes for BadgerDB storage. Activities are keyed by geohash so the
// store's key order doubles as the spatial index order.
const (
	activityKeyPrefix = "activity:"
	profileKeyPrefix  = "profile:"
	aggregateKey      = "stats:global"
)

// BadgerRepository implements the candidate, profile, and aggregate stores on
// an embedded BadgerDB. Range scans ride on Badger's ordered iterators and
// the aggregate commit on a stored version counter checked inside one
// transaction.
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository creates a new BadgerDB-backed repository.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

// storedAggregate is the persisted aggregate value with its version counter.
type storedAggregate struct {
	models.Aggregate
	Version int64 `json:"version"`
}

func activityKey(geohash, id string) []byte {
	return []byte(activityKeyPrefix + geohash + ":" + id)
}

// PutActivity stores an activity under its geohash-ordered key.
func (r *BadgerRepository) PutActivity(ctx context.Context, a models.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal activity: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(activityKey(a.Geohash, a.ID), data)
	})
	if err != nil {
		return fmt.Errorf("repository: failed to store activity: %w", err)
	}
	return nil
}

// ScanRange returns all activities whose geohash falls within [start, end],
// both bounds inclusive, in key order. The scan runs in a read-only snapshot
// transaction.
func (r *BadgerRepository) ScanRange(ctx context.Context, start, end string) ([]models.Activity, error) {
	activities := []models.Activity{}

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(activityKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(activityKeyPrefix + start)); it.Valid(); it.Next() {
			item := it.Item()
			rest := strings.TrimPrefix(string(item.Key()), activityKeyPrefix)
			sep := strings.IndexByte(rest, ':')
			if sep < 0 {
				continue
			}
			if rest[:sep] > end {
				break
			}

			var a models.Activity
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			}); err != nil {
				return fmt.Errorf("unmarshal activity %s: %w", rest, err)
			}
			activities = append(activities, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan range [%s, %s]: %w", start, end, err)
	}

	return activities, nil
}

// CountActivities returns the number of stored activities.
func (r *BadgerRepository) CountActivities(ctx context.Context) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(activityKeyPrefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count activities: %w", err)
	}
	return count, nil
}

// ReadAggregate returns the global aggregate and its version. An absent
// record reads as the zero aggregate at version 0, which a subsequent
// CommitAggregate with expectedVersion 0 creates.
func (r *BadgerRepository) ReadAggregate(ctx context.Context) (models.Aggregate, int64, error) {
	var stored storedAggregate

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(aggregateKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return models.Aggregate{}, 0, fmt.Errorf("repository: failed to read aggregate: %w", err)
	}

	return stored.Aggregate, stored.Version, nil
}

// CommitAggregate writes the aggregate if and only if the stored version
// still equals expectedVersion, returning ErrVersionConflict otherwise. The
// version check and the write share one transaction, and Badger's own
// conflict detection covers racing committers.
func (r *BadgerRepository) CommitAggregate(ctx context.Context, agg models.Aggregate, expectedVersion int64) error {
	data, err := json.Marshal(storedAggregate{Aggregate: agg, Version: expectedVersion + 1})
	if err != nil {
		return fmt.Errorf("repository: failed to marshal aggregate: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		var current storedAggregate

		item, err := txn.Get([]byte(aggregateKey))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// version stays 0
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &current)
			}); err != nil {
				return err
			}
		}

		if current.Version != expectedVersion {
			return ErrVersionConflict
		}
		return txn.Set([]byte(aggregateKey), data)
	})

	if errors.Is(err, ErrVersionConflict) || errors.Is(err, badger.ErrConflict) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("repository: failed to commit aggregate: %w", err)
	}
	return nil
}

// GetProfile returns a stored profile, or ErrNotFound.
func (r *BadgerRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: failed to read profile %s: %w", id, err)
	}

	return &profile, nil
}

// PutProfile stores a profile document.
func (r *BadgerRepository) PutProfile(ctx context.Context, id string, p models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal profile: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+id), data)
	})
	if err != nil {
		return fmt.Errorf("repository: failed to store profile %s: %w", id, err)
	}
	return nil
}
