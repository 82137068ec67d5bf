package routing

import "github.com/wayfarer/wayfarer/pkg/geo"

// RouteCandidate is one decoded, validated trip. Immutable once built.
type RouteCandidate struct {
	Geometry  []geo.Coordinate `json:"geometry" groups:"basic"`
	Maneuvers []Maneuver       `json:"maneuvers" groups:"basic"`

	TotalTimeSeconds float64 `json:"totalTimeSeconds" groups:"basic"`
	TotalLengthKm    float64 `json:"totalLengthKm" groups:"basic"`
	HasToll          bool    `json:"hasToll" groups:"basic"`

	// Kept so a later confirm can re-decode and re-validate defensively
	encodedShape string
}

// RouteSet is the outcome of one calculation: the primary candidate first,
// then any valid alternates in provider order. Replaced wholesale on every
// new calculation.
type RouteSet struct {
	Candidates []RouteCandidate `json:"candidates" groups:"basic"`

	// Candidate with the minimum total time, first occurrence on ties
	RecommendedIndex int `json:"recommendedIndex" groups:"basic"`

	// What the user is looking at, 0 until an alternate is confirmed
	SelectedIndex int `json:"selectedIndex" groups:"basic"`
}

func (s *RouteSet) Selected() *RouteCandidate {
	return &s.Candidates[s.SelectedIndex]
}

func recommendedIndex(candidates []RouteCandidate) int {
	best := 0
	for index, candidate := range candidates {
		if candidate.TotalTimeSeconds < candidates[best].TotalTimeSeconds {
			best = index
		}
	}

	return best
}
