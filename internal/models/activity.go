package models

// DefaultRadiusM is the search radius applied when a request does not specify one.
const DefaultRadiusM = 10000

// TimeWindow is a single open interval within one day. Open and Close are
// clock times encoded as HHMM integers, e.g. 900 for 09:00 and 1730 for 17:30.
// A 24-hour day is {Open: 0, Close: 2400}.
type TimeWindow struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// Schedule maps a weekday name ("Monday" .. "Sunday") to the open windows for
// that day. A day may carry several disjoint windows (lunch closures etc.).
type Schedule map[string][]TimeWindow

// Activity represents a single recommendable place or event, containing its
// coordinates, the precomputed geohash used for range scans, and the attribute
// vector it is scored against.
type Activity struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Latitude    float64           `json:"lat"`
	Longitude   float64           `json:"lng"`
	Geohash     string            `json:"geohash"`
	Sociability float64           `json:"sociability"`
	Physicality float64           `json:"physicality"`
	OpenHours   Schedule          `json:"open_hours,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ScoredActivity is an Activity augmented with the per-request derived fields.
// It is built during ranking and never persisted.
type ScoredActivity struct {
	Activity
	DistanceInM float64 `json:"distanceInM"`
	VibeScore   float64 `json:"vibeScore"`
}

// UserPreference is the querying user's stated preference vector, supplied per
// request. Sociability and Physicality are on the same [0,10] scale as the
// activity attributes.
type UserPreference struct {
	Sociability float64 `json:"sociability"`
	Physicality float64 `json:"physicality"`
	RadiusM     float64 `json:"radius_m,omitempty"`
}
