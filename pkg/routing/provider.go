package routing

// Wire types for the route provider's JSON contract.

type providerLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type providerRequest struct {
	Locations      []providerLocation `json:"locations"`
	Costing        TransportMode      `json:"costing"`
	Alternates     int                `json:"alternates"`
	CostingOptions map[string]float64 `json:"costing_options"`
}

type providerManeuver struct {
	Type        int     `json:"type"`
	Instruction string  `json:"instruction"`
	Length      float64 `json:"length"`
	Toll        bool    `json:"toll"`
}

type providerSummary struct {
	Time    float64 `json:"time"`
	Length  float64 `json:"length"`
	HasToll bool    `json:"has_toll"`
}

type providerLeg struct {
	Shape     string             `json:"shape"`
	Maneuvers []providerManeuver `json:"maneuvers"`
}

type providerTrip struct {
	Legs    []providerLeg    `json:"legs"`
	Summary *providerSummary `json:"summary"`
}

type providerAlternate struct {
	Trip providerTrip `json:"trip"`
}

type providerResponse struct {
	Trip       providerTrip        `json:"trip"`
	Alternates []providerAlternate `json:"alternates"`
}
