package routing

import "errors"

// Each error carries its own user-facing reason - callers surface these
// directly rather than collapsing them into a generic failure.
var (
	ErrIdenticalEndpoints = errors.New("start and end points are identical")
	ErrOutOfServiceArea   = errors.New("route is outside the service area")
	ErrInvalidRoute       = errors.New("no valid route data from the provider")
	ErrIndexOutOfRange    = errors.New("route selection out of range")
	ErrEmptyGeometry      = errors.New("selected route has no geometry inside the service area")
)
