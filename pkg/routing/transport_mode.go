package routing

import "golang.org/x/exp/slices"

type TransportMode string

const (
	TransportModeAuto       TransportMode = "auto"
	TransportModeMotorcycle TransportMode = "motorcycle"
	TransportModeBicycle    TransportMode = "bicycle"
	TransportModePedestrian TransportMode = "pedestrian"
)

var transportModes = []TransportMode{
	TransportModeAuto,
	TransportModeMotorcycle,
	TransportModeBicycle,
	TransportModePedestrian,
}

func (m TransportMode) Valid() bool {
	return slices.Contains(transportModes, m)
}

// costingOptionsFor is the fixed per-mode costing table sent to the route
// provider. Toll avoidance only means anything for motorised modes.
func costingOptionsFor(mode TransportMode, avoidTolls bool) map[string]float64 {
	useTolls := 1.0
	if avoidTolls {
		useTolls = 0
	}

	switch mode {
	case TransportModeMotorcycle:
		return map[string]float64{"use_tolls": useTolls, "use_highways": 1.0}
	case TransportModeBicycle:
		return map[string]float64{"use_roads": 0.1, "use_hills": 0.1}
	case TransportModePedestrian:
		return map[string]float64{"walking_speed": 5.1, "use_sidewalks": 1.0}
	default:
		return map[string]float64{"use_tolls": useTolls}
	}
}
