package mapbridge

import (
	"sync"

	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/incidents"
)

// State mirrors what the map surface is currently showing, built up from the
// outbound command stream. Inbound tap events are answered against it.
type State struct {
	mutex sync.RWMutex

	route     []geo.Coordinate
	incidents []incidents.Incident
}

func NewState() *State {
	return &State{}
}

func (s *State) SetRoute(route []geo.Coordinate) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.route = route
}

func (s *State) ClearRoute() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.route = nil
}

func (s *State) SetIncidents(items []incidents.Incident) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.incidents = items
}

func (s *State) Route() []geo.Coordinate {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.route
}

func (s *State) Incidents() []incidents.Incident {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.incidents
}
