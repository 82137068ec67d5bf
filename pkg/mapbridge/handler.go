package mapbridge

import (
	"encoding/json"
	"errors"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/util"
)

const (
	noticeNotOnRoute       = "Tapped location is not on the current route"
	noticeOutOfServiceArea = "Tapped location is outside the service area"
	noticeNoIncidentFound  = "No incident found at this location"
)

// InboundHandler consumes tap events from the map surface and answers them
// against the mirrored map state. Malformed payloads are logged and dropped,
// never fatal.
type InboundHandler struct {
	Matcher   *incidents.Matcher
	Styles    map[string]incidents.Style
	State     *State
	Publisher *Publisher
}

func (h *InboundHandler) Consume(batch rmq.Deliveries) {
	for _, payload := range batch.Payloads() {
		if err := h.Handle([]byte(payload)); err != nil {
			log.Error().Err(err).Str("payload", util.TrimString(payload, 200)).Msg("Dropping inbound bridge event")
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack inbound bridge event")
		}
	}
}

func (h *InboundHandler) Handle(payload []byte) error {
	event, err := ParseInboundEvent(payload)
	if err != nil {
		return err
	}

	switch event.Type {
	case MessageTypeRouteClick:
		return h.handleRouteClick(event.Location())
	case MessageTypeIncidentClick:
		return h.handleIncidentClick(event.Location())
	}

	return ErrMalformedMessage
}

func (h *InboundHandler) handleRouteClick(location geo.Coordinate) error {
	if !h.Matcher.IsOnRoute(location, h.State.Route()) {
		return h.Publisher.Notice(noticeNotOnRoute)
	}
	if !h.Matcher.IsServiceable(location) {
		return h.Publisher.Notice(noticeOutOfServiceArea)
	}

	return h.Publisher.OpenIncidentReport(location)
}

func (h *InboundHandler) handleIncidentClick(location geo.Coordinate) error {
	match := h.Matcher.FindNear(location, h.State.Incidents())
	if match == nil {
		return h.Publisher.Notice(noticeNoIncidentFound)
	}

	return h.Publisher.ShowIncident(incidents.Decorate(*match, h.Styles))
}

// OutboundMirror consumes the command stream headed for the map surface and
// keeps State in sync with it. Commands that carry no map state pass
// straight through.
type OutboundMirror struct {
	State *State
}

func (m *OutboundMirror) Consume(batch rmq.Deliveries) {
	for _, payload := range batch.Payloads() {
		if err := m.apply([]byte(payload)); err != nil {
			log.Error().Err(err).Str("payload", util.TrimString(payload, 200)).Msg("Dropping outbound bridge command")
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack outbound bridge command")
		}
	}
}

func (m *OutboundMirror) apply(payload []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return errors.Join(ErrMalformedMessage, err)
	}

	switch envelope.Type {
	case MessageTypeSetRoute:
		var route SetRoutePayload
		if err := json.Unmarshal(envelope.Payload, &route); err != nil {
			return errors.Join(ErrMalformedMessage, err)
		}
		m.State.SetRoute(route.Coordinates)
	case MessageTypeClearRoute:
		m.State.ClearRoute()
	case MessageTypeSetIncidents:
		var set SetIncidentsPayload
		if err := json.Unmarshal(envelope.Payload, &set); err != nil {
			return errors.Join(ErrMalformedMessage, err)
		}

		items := make([]incidents.Incident, 0, len(set.Items))
		for _, item := range set.Items {
			items = append(items, item.Incident)
		}
		m.State.SetIncidents(items)
	}

	return nil
}
