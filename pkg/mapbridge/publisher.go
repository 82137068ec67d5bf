package mapbridge

import (
	"encoding/json"

	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/redis_client"
	"github.com/wayfarer/wayfarer/pkg/routing"
)

const (
	OutboundQueueName = "bridge-outbound-queue"
	InboundQueueName  = "bridge-inbound-queue"
)

type bytesPublisher interface {
	PublishBytes(payload ...[]byte) error
}

// Publisher pushes outbound commands onto the bridge queue for the map
// surface process to render.
type Publisher struct {
	Queue bytesPublisher
}

func NewPublisher() (*Publisher, error) {
	queue, err := redis_client.QueueConnection.OpenQueue(OutboundQueueName)
	if err != nil {
		return nil, err
	}

	return &Publisher{Queue: queue}, nil
}

func (p *Publisher) publish(messageType MessageType, payload any) error {
	envelope, err := NewEnvelope(messageType, payload)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return p.Queue.PublishBytes(encoded)
}

func (p *Publisher) SetRoute(candidate *routing.RouteCandidate, start routing.Endpoint, end routing.Endpoint, slot RouteColorSlot, centerOnStart bool) error {
	return p.publish(MessageTypeSetRoute, SetRoutePayload{
		Coordinates: candidate.Geometry,
		Start:       start.Location,
		StartLabel:  start.Label,
		End:         end.Location,
		EndLabel:    end.Label,
		Maneuvers:   candidate.Maneuvers,

		ColorSlot: slot,
		Color:     slot.Hex(),

		CenterOnStart: centerOnStart,
	})
}

func (p *Publisher) ClearRoute() error {
	return p.publish(MessageTypeClearRoute, nil)
}

func (p *Publisher) SetIncidents(items []incidents.DecoratedIncident) error {
	return p.publish(MessageTypeSetIncidents, SetIncidentsPayload{Items: items})
}

func (p *Publisher) CenterMap(coordinate geo.Coordinate, zoom float64) error {
	return p.publish(MessageTypeCenterMap, CenterMapPayload{Coordinate: coordinate, Zoom: zoom})
}

func (p *Publisher) UpdateUserLocation(coordinate geo.Coordinate, headingDegrees *float64, rotateMapToHeading bool) error {
	return p.publish(MessageTypeUpdateUserLocation, UpdateUserLocationPayload{
		Coordinate:         coordinate,
		HeadingDegrees:     headingDegrees,
		RotateMapToHeading: rotateMapToHeading,
	})
}

func (p *Publisher) SetMapType(kind MapType) error {
	if !kind.Valid() {
		return ErrUnknownMapType
	}

	return p.publish(MessageTypeSetMapType, SetMapTypePayload{Kind: kind})
}

func (p *Publisher) OpenIncidentReport(coordinate geo.Coordinate) error {
	return p.publish(MessageTypeOpenIncidentReport, OpenIncidentReportPayload{Coordinate: coordinate})
}

func (p *Publisher) ShowIncident(incident incidents.DecoratedIncident) error {
	return p.publish(MessageTypeShowIncident, ShowIncidentPayload{Incident: incident})
}

func (p *Publisher) Notice(message string) error {
	return p.publish(MessageTypeNotice, NoticePayload{Message: message})
}
