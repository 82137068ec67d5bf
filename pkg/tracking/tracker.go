// Package tracking forwards live position fixes to the map surface while a
// route is being followed.
package tracking

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/mapbridge"
)

const firstFixZoom = 13

// Tracker turns raw position fixes into map surface updates. Fixes outside
// the service area are clamped to the configured default location so the map
// never jumps off the serviced city.
type Tracker struct {
	ServiceArea     geo.BoundingBox
	DefaultLocation geo.Coordinate

	Publisher *mapbridge.Publisher

	mutex    sync.Mutex
	centered bool
}

// HandleFix publishes an UpdateUserLocation for the fix, centering the map
// once on the first fix of a session. The map only rotates to the heading
// while actively tracking a confirmed route.
func (t *Tracker) HandleFix(location geo.Coordinate, headingDegrees *float64, tracking bool) error {
	if !location.Valid() || !t.ServiceArea.Contains(location) {
		log.Debug().
			Float64("latitude", location.Latitude).
			Float64("longitude", location.Longitude).
			Msg("Fix outside the service area, clamping to default location")

		location = t.DefaultLocation
		headingDegrees = nil
	}

	rotate := tracking && headingDegrees != nil
	if err := t.Publisher.UpdateUserLocation(location, headingDegrees, rotate); err != nil {
		return err
	}

	t.mutex.Lock()
	first := !t.centered
	t.centered = true
	t.mutex.Unlock()

	if first {
		return t.Publisher.CenterMap(location, firstFixZoom)
	}

	return nil
}

// Reset makes the next fix center the map again, for when a new session
// starts.
func (t *Tracker) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.centered = false
}
