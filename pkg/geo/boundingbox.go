package geo

// BoundingBox is an axis-aligned box between a south-west and a north-east
// corner. The engine's service area is one of these, loaded once at startup
// and never mutated.
type BoundingBox struct {
	SouthWest Coordinate `json:"southWest" yaml:"south_west"`
	NorthEast Coordinate `json:"northEast" yaml:"north_east"`
}

// Contains is inclusive on both axes.
func (b BoundingBox) Contains(point Coordinate) bool {
	return point.Latitude >= b.SouthWest.Latitude &&
		point.Latitude <= b.NorthEast.Latitude &&
		point.Longitude >= b.SouthWest.Longitude &&
		point.Longitude <= b.NorthEast.Longitude
}
