package models

// Aggregate is the single global record summarizing population-wide interest
// counts and preference sums. All mutation flows through the aggregate
// service's optimistic transaction; every other component reads it at most.
//
// Invariants at rest: every count and sum is >= 0, and TotalUsers == 0 implies
// both sums and both derived averages are 0.
type Aggregate struct {
	AggregatedActivities map[string]int `json:"aggregatedActivities"`
	SocialSum            float64        `json:"socialSum"`
	PhysicalSum          float64        `json:"physicalSum"`
	TotalUsers           int            `json:"totalUsers"`
	AverageSocial        int            `json:"averageSocial"`
	AveragePhysical      int            `json:"averagePhysical"`
}
