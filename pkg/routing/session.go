package routing

import "github.com/wayfarer/wayfarer/pkg/geo"

type SessionState string

const (
	SessionStatePlanning  SessionState = "Planning"
	SessionStateConfirmed SessionState = "Confirmed"
	SessionStateTracking  SessionState = "Tracking"
)

// Endpoint is a chosen start or destination with its display label.
type Endpoint struct {
	Location geo.Coordinate `json:"location" groups:"basic"`
	Label    string         `json:"label" groups:"basic"`
}

// NavigationSession is the single state machine behind what used to be a pile
// of independent screen flags: Planning until a route is confirmed, then
// Confirmed, then optionally Tracking, and back to Planning on cancel or
// clear. All transitions are synchronous - route calculation itself happens
// outside via the Orchestrator and lands here through SetRouteSet/Confirm.
type NavigationSession struct {
	Start *Endpoint `json:"start" groups:"basic"`
	End   *Endpoint `json:"end" groups:"basic"`

	RouteSet *RouteSet `json:"routeSet" groups:"basic"`

	Confirmed bool `json:"confirmed" groups:"basic"`
	Tracking  bool `json:"tracking" groups:"basic"`
}

func (s *NavigationSession) State() SessionState {
	switch {
	case s.Confirmed && s.Tracking:
		return SessionStateTracking
	case s.Confirmed:
		return SessionStateConfirmed
	default:
		return SessionStatePlanning
	}
}

// Ready means both endpoints are set so a route can be calculated.
func (s *NavigationSession) Ready() bool {
	return s.Start != nil && s.End != nil
}

// SetRouteSet replaces the candidate set wholesale after a fresh
// calculation. Any prior confirmation no longer applies to the new set.
func (s *NavigationSession) SetRouteSet(set *RouteSet) {
	s.RouteSet = set
	s.Confirmed = false
	s.Tracking = false
}

// Confirm locks in a selected set produced by SelectAndConfirm.
func (s *NavigationSession) Confirm(set *RouteSet) {
	s.RouteSet = set
	s.Confirmed = true
}

// StartTracking only applies once a route is confirmed.
func (s *NavigationSession) StartTracking() bool {
	if !s.Confirmed {
		return false
	}

	s.Tracking = true
	return true
}

func (s *NavigationSession) StopTracking() {
	s.Tracking = false
}

// Cancel drops a confirmed route back to planning. It reports whether the
// caller should recalculate, which it should whenever both endpoints are
// still set.
func (s *NavigationSession) Cancel() bool {
	s.Confirmed = false
	s.Tracking = false

	return s.Ready()
}

// Clear is the explicit back action: discard endpoints and the route set
// entirely, from any state.
func (s *NavigationSession) Clear() {
	s.Start = nil
	s.End = nil
	s.RouteSet = nil
	s.Confirmed = false
	s.Tracking = false
}
