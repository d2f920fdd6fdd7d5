package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"commonground-api/internal/geo"
	"commonground-api/internal/models"
	"commonground-api/internal/scoring"
)

// maxResults bounds every recommendation response.
const maxResults = 20

// CandidateRepository interface for dependency injection
type CandidateRepository interface {
	ScanRange(ctx context.Context, start, end string) ([]models.Activity, error)
}

// RecommendQuery is one recommendation request: where the user is and what
// they are in the mood for.
type RecommendQuery struct {
	Lat  float64
	Lng  float64
	Pref models.UserPreference
}

// RecommendationService contains the core ranking logic: cover the search
// disc with geohash key ranges, scan them concurrently, re-filter by exact
// distance and open hours, then rank by vibe score.
type RecommendationService struct {
	repo     CandidateRepository
	timeout  time.Duration
	location *time.Location
	now      func() time.Time
}

// NewRecommendationService creates a new recommendation service. The request
// deadline bounds the whole fan-out; loc is the timezone open-hours are
// evaluated in (nil means the server's local time).
func NewRecommendationService(repo CandidateRepository, timeout time.Duration, loc *time.Location) *RecommendationService {
	return &RecommendationService{
		repo:     repo,
		timeout:  timeout,
		location: loc,
		now:      time.Now,
	}
}

// Recommend returns up to 20 open activities within the requested radius,
// ordered by ascending vibe score. A zero radius matches only activities at
// the exact center point. The result is read-only and all-or-nothing:
// if any shard scan fails, the whole request fails rather than returning an
// under-covered list.
func (s *RecommendationService) Recommend(ctx context.Context, q RecommendQuery) ([]models.ScoredActivity, error) {
	if !geo.ValidCoordinates(q.Lat, q.Lng) {
		return nil, fmt.Errorf("%w: coordinates (%f, %f) out of range", ErrInvalidInput, q.Lat, q.Lng)
	}
	radius := q.Pref.RadiusM
	if radius < 0 {
		return nil, fmt.Errorf("%w: negative radius %f", ErrInvalidInput, radius)
	}

	ranges := geo.QueryRanges(q.Lat, q.Lng, radius)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// One slot per range; the ranges are disjoint and each goroutine writes
	// only its own slot, so the fan-out needs no locking.
	shards := make([][]models.Activity, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, kr := range ranges {
		g.Go(func() error {
			activities, err := s.repo.ScanRange(gctx, kr.Start, kr.End)
			if err != nil {
				return err
			}
			shards[i] = activities
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: range scan failed: %v", ErrUpstreamUnavailable, err)
	}

	now := s.now()
	results := []models.ScoredActivity{}
	for _, shard := range shards {
		for _, a := range shard {
			// The key ranges over-cover the disc; the exact distance
			// re-filter is what makes the radius binding.
			d := geo.Distance(q.Lat, q.Lng, a.Latitude, a.Longitude)
			if d > radius {
				continue
			}
			if !scoring.OpenAt(a.OpenHours, now, s.location) {
				continue
			}
			results = append(results, models.ScoredActivity{
				Activity:    a,
				DistanceInM: d,
				VibeScore:   scoring.VibeScore(q.Pref, a),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].VibeScore != results[j].VibeScore {
			return results[i].VibeScore < results[j].VibeScore
		}
		if results[i].DistanceInM != results[j].DistanceInM {
			return results[i].DistanceInM < results[j].DistanceInM
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}
