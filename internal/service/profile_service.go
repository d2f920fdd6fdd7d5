package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commonground-api/internal/models"
	"commonground-api/internal/repository"
)

// ProfileRepository interface for dependency injection
type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	PutProfile(ctx context.Context, id string, p models.Profile) error
}

// AggregateApplier interface for dependency injection
type AggregateApplier interface {
	Apply(ctx context.Context, delta ProfileDelta) error
}

// ProfileService sequences the two physical writes of a profile save, the
// global aggregate transaction and the profile document, as one logical
// unit. A definite failure of either fails the whole save, so the aggregate
// and the per-user documents cannot silently drift apart.
type ProfileService struct {
	profiles   ProfileRepository
	aggregates AggregateApplier
	now        func() time.Time
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles ProfileRepository, aggregates AggregateApplier) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		aggregates: aggregates,
		now:        time.Now,
	}
}

// Save persists a profile and applies its aggregate delta. The delta is
// computed against the currently stored profile (nil for a new user), the
// aggregate commits first, then the document is written; if the document
// write fails, the inverse delta is applied to roll the aggregate back
// before the error is surfaced.
func (s *ProfileService) Save(ctx context.Context, id string, p models.Profile) error {
	if id == "" {
		return fmt.Errorf("%w: empty profile id", ErrInvalidInput)
	}
	if p.SocialBattery < 0 || p.PhysicalEnergy < 0 {
		return fmt.Errorf("%w: negative preference values", ErrInvalidInput)
	}

	old, err := s.profiles.GetProfile(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	delta := ComputeProfileDelta(old, p)

	if err := s.aggregates.Apply(ctx, delta); err != nil {
		return fmt.Errorf("service: aggregate update failed: %w", err)
	}

	p.Onboarded = true
	p.UpdatedAt = s.now().UTC()

	if err := s.profiles.PutProfile(ctx, id, p); err != nil {
		// Roll the aggregate back so a lost document write does not leave
		// a phantom user in the global stats.
		if undoErr := s.aggregates.Apply(ctx, delta.Inverse()); undoErr != nil {
			return fmt.Errorf("service: profile write failed (%v), aggregate rollback failed: %w", err, undoErr)
		}
		return fmt.Errorf("service: profile write failed: %w", err)
	}
	return nil
}

// Get returns a stored profile, or repository.ErrNotFound.
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty profile id", ErrInvalidInput)
	}
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return profile, nil
}
