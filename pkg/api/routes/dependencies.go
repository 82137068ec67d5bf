package routes

import (
	"sync"

	"github.com/wayfarer/wayfarer/pkg/config"
	"github.com/wayfarer/wayfarer/pkg/geocoding"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/mapbridge"
	"github.com/wayfarer/wayfarer/pkg/routing"
	"github.com/wayfarer/wayfarer/pkg/tracking"
)

// Dependencies carries the engine components the route handlers work
// against, plus the one navigation session this API instance owns.
type Dependencies struct {
	Config *config.Config

	Orchestrator *routing.Orchestrator
	Searcher     *geocoding.Searcher
	Incidents    *incidents.Client
	Publisher    *mapbridge.Publisher
	Tracker      *tracking.Tracker

	sessionMutex sync.Mutex
	session      routing.NavigationSession
}

// WithSession runs fn while holding the session lock. Handlers never touch
// the session outside of this.
func (d *Dependencies) WithSession(fn func(session *routing.NavigationSession)) {
	d.sessionMutex.Lock()
	defer d.sessionMutex.Unlock()

	fn(&d.session)
}
