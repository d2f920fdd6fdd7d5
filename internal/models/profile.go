package models

import "time"

// Profile is a user's saved onboarding state: the preference vector plus the
// set of interest tags that feed the global aggregate counts.
type Profile struct {
	Name           string    `json:"name,omitempty"`
	SocialBattery  float64   `json:"socialBattery"`
	PhysicalEnergy float64   `json:"physicalEnergy"`
	Interests      []string  `json:"interests"`
	Onboarded      bool      `json:"onboarded"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
