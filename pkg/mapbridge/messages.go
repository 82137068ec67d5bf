package mapbridge

import (
	"encoding/json"
	"errors"

	"golang.org/x/exp/slices"

	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/routing"
)

type MessageType string

// Outbound commands, core to map surface. Each replaces any prior state of
// the same kind on the surface.
const (
	MessageTypeSetRoute           MessageType = "setRoute"
	MessageTypeClearRoute         MessageType = "clearRoute"
	MessageTypeSetIncidents       MessageType = "setIncidents"
	MessageTypeCenterMap          MessageType = "centerMap"
	MessageTypeUpdateUserLocation MessageType = "updateUserLocation"
	MessageTypeSetMapType         MessageType = "setMapType"

	MessageTypeOpenIncidentReport MessageType = "openIncidentReport"
	MessageTypeShowIncident       MessageType = "showIncident"
	MessageTypeNotice             MessageType = "notice"
)

// Inbound events, map surface to core.
const (
	MessageTypeRouteClick    MessageType = "routeClick"
	MessageTypeIncidentClick MessageType = "incidentClick"
)

var (
	ErrMalformedMessage = errors.New("malformed bridge message")
	ErrUnknownMapType   = errors.New("unknown map type")
)

type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewEnvelope(messageType MessageType, payload any) (*Envelope, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Envelope{Type: messageType, Payload: encoded}, nil
}

type RouteColorSlot string

const (
	RouteColorSlotPrimary   RouteColorSlot = "primary"
	RouteColorSlotAlternate RouteColorSlot = "alternate"
)

func (s RouteColorSlot) Hex() string {
	if s == RouteColorSlotAlternate {
		return "#2196F3"
	}

	return "#4CAF50"
}

type SetRoutePayload struct {
	Coordinates []geo.Coordinate   `json:"coordinates"`
	Start       geo.Coordinate     `json:"start"`
	StartLabel  string             `json:"startLabel"`
	End         geo.Coordinate     `json:"end"`
	EndLabel    string             `json:"endLabel"`
	Maneuvers   []routing.Maneuver `json:"maneuvers"`

	ColorSlot RouteColorSlot `json:"colorSlot"`
	Color     string         `json:"color"`

	CenterOnStart bool `json:"centerOnStart"`
}

type SetIncidentsPayload struct {
	Items []incidents.DecoratedIncident `json:"items"`
}

type CenterMapPayload struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	Zoom       float64        `json:"zoom"`
}

type UpdateUserLocationPayload struct {
	Coordinate         geo.Coordinate `json:"coordinate"`
	HeadingDegrees     *float64       `json:"headingDegrees,omitempty"`
	RotateMapToHeading bool           `json:"rotateMapToHeading"`
}

type MapType string

const (
	MapTypeStandard  MapType = "standard"
	MapTypeSatellite MapType = "satellite"
	MapTypeHybrid    MapType = "hybrid"
	MapTypeTerrain   MapType = "terrain"
)

var mapTypes = []MapType{MapTypeStandard, MapTypeSatellite, MapTypeHybrid, MapTypeTerrain}

func (m MapType) Valid() bool {
	return slices.Contains(mapTypes, m)
}

type SetMapTypePayload struct {
	Kind MapType `json:"kind"`
}

type OpenIncidentReportPayload struct {
	Coordinate geo.Coordinate `json:"coordinate"`
}

type ShowIncidentPayload struct {
	Incident incidents.DecoratedIncident `json:"incident"`
}

type NoticePayload struct {
	Message string `json:"message"`
}

// InboundEvent is the flat shape the map surface sends for taps. Payloads
// come from an external process so parsing stays defensive.
type InboundEvent struct {
	Type      MessageType `json:"type"`
	Latitude  *float64    `json:"latitude"`
	Longitude *float64    `json:"longitude"`
}

func (e *InboundEvent) Location() geo.Coordinate {
	return geo.Coordinate{Latitude: *e.Latitude, Longitude: *e.Longitude}
}

// ParseInboundEvent rejects anything that is not a well-formed tap event
// with in-range coordinates.
func ParseInboundEvent(payload []byte) (*InboundEvent, error) {
	var event InboundEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ErrMalformedMessage
	}

	if event.Type != MessageTypeRouteClick && event.Type != MessageTypeIncidentClick {
		return nil, ErrMalformedMessage
	}
	if event.Latitude == nil || event.Longitude == nil {
		return nil, ErrMalformedMessage
	}
	if !event.Location().Valid() {
		return nil, ErrMalformedMessage
	}

	return &event, nil
}
