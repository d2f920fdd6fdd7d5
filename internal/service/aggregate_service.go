package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"commonground-api/internal/models"
	"commonground-api/internal/repository"
)

// defaultMaxRetries bounds the optimistic commit loop.
const defaultMaxRetries = 5

// AggregateRepository interface for dependency injection
type AggregateRepository interface {
	ReadAggregate(ctx context.Context) (models.Aggregate, int64, error)
	CommitAggregate(ctx context.Context, agg models.Aggregate, expectedVersion int64) error
}

// ProfileDelta is the signed change one profile save causes to the global
// aggregate. It is computed once from the caller's in-memory old/new state
// and stays fixed across commit retries, so a retried transaction never
// compounds the change.
type ProfileDelta struct {
	TagChanges     map[string]int
	SocialDelta    float64
	PhysicalDelta  float64
	UserCountDelta int
}

// Inverse returns the delta that undoes d.
func (d ProfileDelta) Inverse() ProfileDelta {
	inv := ProfileDelta{
		TagChanges:     make(map[string]int, len(d.TagChanges)),
		SocialDelta:    -d.SocialDelta,
		PhysicalDelta:  -d.PhysicalDelta,
		UserCountDelta: -d.UserCountDelta,
	}
	for tag, change := range d.TagChanges {
		inv.TagChanges[tag] = -change
	}
	return inv
}

// ComputeProfileDelta derives the aggregate delta between a user's previous
// profile (nil for a brand-new user) and the one being saved. Tags present in
// both profiles cancel out and are omitted.
func ComputeProfileDelta(old *models.Profile, updated models.Profile) ProfileDelta {
	delta := ProfileDelta{TagChanges: map[string]int{}}

	oldTags := map[string]bool{}
	if old != nil {
		for _, tag := range old.Interests {
			oldTags[tag] = true
		}
		delta.SocialDelta = updated.SocialBattery - old.SocialBattery
		delta.PhysicalDelta = updated.PhysicalEnergy - old.PhysicalEnergy
	} else {
		delta.SocialDelta = updated.SocialBattery
		delta.PhysicalDelta = updated.PhysicalEnergy
		delta.UserCountDelta = 1
	}

	newTags := map[string]bool{}
	for _, tag := range updated.Interests {
		newTags[tag] = true
		if !oldTags[tag] {
			delta.TagChanges[tag] = 1
		}
	}
	for tag := range oldTags {
		if !newTags[tag] {
			delta.TagChanges[tag] = -1
		}
	}

	return delta
}

// NormalizeTag is the single normalizer applied to every interest tag before
// it is used as an aggregate map key: all whitespace stripped, first rune
// lower-cased ("Board Games" -> "boardGames"). Every reader and writer of
// the aggregate must go through it or counts fork across key variants.
func NormalizeTag(tag string) string {
	var b strings.Builder
	b.Grow(len(tag))
	for _, r := range tag {
		if unicode.IsSpace(r) {
			continue
		}
		if b.Len() == 0 {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AggregateService is the only writer of the global aggregate. Every change
// goes through its optimistic read-compute-commit transaction.
type AggregateService struct {
	repo       AggregateRepository
	maxRetries int
}

// NewAggregateService creates a new aggregate service. maxRetries bounds the
// commit loop; values below 1 fall back to the default of 5.
func NewAggregateService(repo AggregateRepository, maxRetries int) *AggregateService {
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}
	return &AggregateService{repo: repo, maxRetries: maxRetries}
}

// Apply commits a profile delta to the global aggregate. On a version
// conflict the whole read-compute-commit cycle reruns from a fresh snapshot,
// up to the retry budget; exhausting it surfaces ErrConflictExhausted and the
// aggregate is guaranteed unchanged by this call.
func (s *AggregateService) Apply(ctx context.Context, delta ProfileDelta) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		current, version, err := s.repo.ReadAggregate(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}

		next := applyDelta(current, delta)

		err = s.repo.CommitAggregate(ctx, next, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	}
	return ErrConflictExhausted
}

// Read returns a read-only snapshot of the global aggregate.
func (s *AggregateService) Read(ctx context.Context) (models.Aggregate, error) {
	agg, _, err := s.repo.ReadAggregate(ctx)
	if err != nil {
		return models.Aggregate{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if agg.AggregatedActivities == nil {
		agg.AggregatedActivities = map[string]int{}
	}
	return agg, nil
}

// applyDelta computes the next aggregate state from a snapshot and a delta.
// Pure: safe to re-execute on every retry.
func applyDelta(current models.Aggregate, delta ProfileDelta) models.Aggregate {
	next := current
	next.AggregatedActivities = make(map[string]int, len(current.AggregatedActivities)+len(delta.TagChanges))
	for tag, count := range current.AggregatedActivities {
		next.AggregatedActivities[tag] = count
	}

	for tag, change := range delta.TagChanges {
		key := NormalizeTag(tag)
		count := next.AggregatedActivities[key] + change
		if count < 0 {
			count = 0
		}
		next.AggregatedActivities[key] = count
	}

	next.SocialSum += delta.SocialDelta
	next.PhysicalSum += delta.PhysicalDelta
	next.TotalUsers += delta.UserCountDelta

	if next.TotalUsers <= 0 {
		// An empty population has no sums and no average. Tag counts are
		// clamped individually above, not reset.
		next.TotalUsers = 0
		next.SocialSum = 0
		next.PhysicalSum = 0
	} else {
		if next.SocialSum < 0 {
			next.SocialSum = 0
		}
		if next.PhysicalSum < 0 {
			next.PhysicalSum = 0
		}
	}

	if next.TotalUsers > 0 {
		next.AverageSocial = int(math.Round(next.SocialSum / float64(next.TotalUsers)))
		next.AveragePhysical = int(math.Round(next.PhysicalSum / float64(next.TotalUsers)))
	} else {
		next.AverageSocial = 0
		next.AveragePhysical = 0
	}

	return next
}
