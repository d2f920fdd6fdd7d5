// Package scoring holds the pure scoring primitives of the recommendation
// path: the preference-mismatch ("vibe") score and the open-hours predicate.
package scoring

import (
	"math"
	"time"

	"commonground-api/internal/models"
)

// VibeScore measures how far an activity sits from the user's stated
// preferences: the Euclidean distance in (sociability, physicality) space.
// Lower is better, 0 is a perfect match, and sqrt(200) is the maximum over
// the [0,10] attribute domain.
func VibeScore(pref models.UserPreference, a models.Activity) float64 {
	socialDiff := a.Sociability - pref.Sociability
	physicalDiff := a.Physicality - pref.Physicality
	return math.Sqrt(socialDiff*socialDiff + physicalDiff*physicalDiff)
}

// OpenAt reports whether a schedule is open at the given instant, evaluated
// in loc (or now's own location when loc is nil). The clock and timezone are
// explicit inputs so the result never depends on host-local state.
//
// Policy: a nil or empty schedule is fail-open, since missing data should not
// exclude a candidate. A weekday that is absent from a non-empty schedule, or
// present with an empty window list, is closed for that whole day. Otherwise
// the schedule is open iff the current time falls within at least one of the
// day's windows.
func OpenAt(s models.Schedule, now time.Time, loc *time.Location) bool {
	if len(s) == 0 {
		return true
	}
	if loc != nil {
		now = now.In(loc)
	}

	windows, ok := s[now.Weekday().String()]
	if !ok || len(windows) == 0 {
		return false
	}

	t := now.Hour()*100 + now.Minute()
	for _, w := range windows {
		if t >= w.Open && t < w.Close {
			return true
		}
	}
	return false
}
