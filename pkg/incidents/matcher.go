package incidents

import (
	"math"

	"github.com/wayfarer/wayfarer/pkg/geo"
)

// DefaultEpsilonDegrees is the tap matching tolerance on each axis,
// sub-metre at city latitudes.
const DefaultEpsilonDegrees = 1e-5

// Matcher answers the geometry questions the bridge asks about incidents and
// taps: is this point on the active route, is it inside the service area,
// which incident sits under it.
type Matcher struct {
	ServiceArea geo.BoundingBox

	// Zero values fall back to the system defaults.
	OnRouteThreshold float64
	EpsilonDegrees   float64
}

func (m *Matcher) IsOnRoute(point geo.Coordinate, routeGeometry []geo.Coordinate) bool {
	threshold := m.OnRouteThreshold
	if threshold == 0 {
		threshold = geo.DefaultOnRouteThreshold
	}

	return geo.IsPointOnPolyline(point, routeGeometry, threshold)
}

func (m *Matcher) IsServiceable(point geo.Coordinate) bool {
	return m.ServiceArea.Contains(point)
}

// FindNear returns the first incident whose stored coordinate is within the
// epsilon tolerance of point on both axes. Incidents without a location are
// skipped. Returns nil when nothing matches.
func (m *Matcher) FindNear(point geo.Coordinate, incidents []Incident) *Incident {
	epsilon := m.EpsilonDegrees
	if epsilon == 0 {
		epsilon = DefaultEpsilonDegrees
	}

	for index := range incidents {
		location := incidents[index].Location()
		if location == nil {
			continue
		}

		if math.Abs(location.Latitude-point.Latitude) < epsilon &&
			math.Abs(location.Longitude-point.Longitude) < epsilon {
			return &incidents[index]
		}
	}

	return nil
}
