package routing

type ManeuverKind string

const (
	ManeuverKindStart          ManeuverKind = "Start"
	ManeuverKindDestination    ManeuverKind = "Destination"
	ManeuverKindContinue       ManeuverKind = "Continue"
	ManeuverKindTurnRight      ManeuverKind = "TurnRight"
	ManeuverKindTurnLeft       ManeuverKind = "TurnLeft"
	ManeuverKindUTurnRight     ManeuverKind = "UTurnRight"
	ManeuverKindUTurnLeft      ManeuverKind = "UTurnLeft"
	ManeuverKindRamp           ManeuverKind = "Ramp"
	ManeuverKindRampRight      ManeuverKind = "RampRight"
	ManeuverKindRampLeft       ManeuverKind = "RampLeft"
	ManeuverKindExit           ManeuverKind = "Exit"
	ManeuverKindRoundabout     ManeuverKind = "Roundabout"
	ManeuverKindRoundaboutExit ManeuverKind = "RoundaboutExit"
	ManeuverKindUnknown        ManeuverKind = "UNKNOWN"
)

// Maneuver is one instruction along a route, in traversal order.
type Maneuver struct {
	Kind        ManeuverKind `json:"kind" groups:"basic"`
	Instruction string       `json:"instruction" groups:"basic"`
	LengthKm    float64      `json:"lengthKm" groups:"basic"`
	Toll        bool         `json:"toll" groups:"basic"`
}

// maneuverKindForType maps the provider's numeric maneuver types onto the
// engine's kinds.
func maneuverKindForType(providerType int) ManeuverKind {
	switch providerType {
	case 1:
		return ManeuverKindStart
	case 2, 3, 4:
		return ManeuverKindDestination
	case 5, 6:
		return ManeuverKindRamp
	case 7:
		return ManeuverKindExit
	case 8, 9:
		return ManeuverKindContinue
	case 10, 11, 12:
		return ManeuverKindTurnRight
	case 13:
		return ManeuverKindUTurnRight
	case 14:
		return ManeuverKindUTurnLeft
	case 15, 16, 17:
		return ManeuverKindTurnLeft
	case 18, 20:
		return ManeuverKindRampRight
	case 19, 21:
		return ManeuverKindRampLeft
	case 22, 23, 24, 26:
		return ManeuverKindRoundabout
	case 27:
		return ManeuverKindRoundaboutExit
	default:
		return ManeuverKindUnknown
	}
}

// Icon returns the marker icon reference the map surface renders for this
// kind of maneuver.
func (k ManeuverKind) Icon() string {
	switch k {
	case ManeuverKindDestination:
		return "map-marker"
	case ManeuverKindTurnRight:
		return "arrow-right"
	case ManeuverKindTurnLeft:
		return "arrow-left"
	case ManeuverKindUTurnRight, ManeuverKindRoundabout:
		return "rotate-right"
	case ManeuverKindUTurnLeft:
		return "rotate-left"
	case ManeuverKindRamp, ManeuverKindExit, ManeuverKindRampRight, ManeuverKindRoundaboutExit:
		return "arrow-up-right"
	case ManeuverKindRampLeft:
		return "arrow-up-left"
	default:
		return "arrow-up"
	}
}
