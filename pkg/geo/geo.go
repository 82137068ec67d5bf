package geo

import "math"

const EarthRadiusMetres = 6371000

// DefaultOnRouteThreshold is how far (in metres) a point may sit from a
// route polyline and still count as being on the route.
const DefaultOnRouteThreshold = 50

type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// HaversineDistance returns the great-circle distance between two points in
// metres.
func HaversineDistance(a Coordinate, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMetres * c
}

// DistanceToSegment returns the distance in metres from point to the segment
// between segStart and segEnd. The projection treats lat/lon as planar
// coordinates which is only reasonable over city-scale segments - the final
// distance to the clamped nearest point is still haversine.
func DistanceToSegment(point Coordinate, segStart Coordinate, segEnd Coordinate) float64 {
	a := point.Latitude - segStart.Latitude
	b := point.Longitude - segStart.Longitude
	c := segEnd.Latitude - segStart.Latitude
	d := segEnd.Longitude - segStart.Longitude

	dot := a*c + b*d
	lenSq := c*c + d*d

	// Degenerate segment, fall back to point to point distance
	param := -1.0
	if lenSq != 0 {
		param = dot / lenSq
	}

	var nearest Coordinate
	if param < 0 {
		nearest = segStart
	} else if param > 1 {
		nearest = segEnd
	} else {
		nearest = Coordinate{
			Latitude:  segStart.Latitude + param*c,
			Longitude: segStart.Longitude + param*d,
		}
	}

	return HaversineDistance(point, nearest)
}

// IsPointOnPolyline reports whether point is within maxDistance metres of any
// segment of the polyline. Polylines with fewer than 2 points never match.
func IsPointOnPolyline(point Coordinate, polyline []Coordinate, maxDistance float64) bool {
	if len(polyline) < 2 {
		return false
	}

	minDistance := math.Inf(1)
	for i := 0; i < len(polyline)-1; i++ {
		distance := DistanceToSegment(point, polyline[i], polyline[i+1])
		minDistance = math.Min(minDistance, distance)
	}

	return minDistance <= maxDistance
}
