package incidents

import (
	"time"

	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/util"
)

// Incident is a road incident record as served by the backend incident API.
// The engine only reads location, kind, active flag and expiry for matching -
// the rest passes through to the presentation layer.
type Incident struct {
	ID       int64  `json:"id" groups:"basic"`
	UserID   int64  `json:"userId" groups:"detailed"`
	UserName string `json:"userName" groups:"detailed"`

	Latitude  *float64 `json:"latitude" groups:"basic"`
	Longitude *float64 `json:"longitude" groups:"basic"`

	Kind        string `json:"type" groups:"basic"`
	Description string `json:"description" groups:"detailed"`

	CreatedAt time.Time `json:"createdAt" groups:"detailed"`
	ExpiresAt time.Time `json:"expiresAt" groups:"basic"`

	Upvotes   int `json:"upvotes" groups:"detailed"`
	Downvotes int `json:"downvotes" groups:"detailed"`

	DistanceKm float64 `json:"distance" groups:"detailed"`

	IsActive bool `json:"isActive" groups:"basic"`
}

// Location returns nil when the record carries no coordinate.
func (i *Incident) Location() *geo.Coordinate {
	if i.Latitude == nil || i.Longitude == nil {
		return nil
	}

	return &geo.Coordinate{Latitude: *i.Latitude, Longitude: *i.Longitude}
}

// IsVotable means active and not yet expired.
func (i *Incident) IsVotable(now time.Time) bool {
	return i.IsActive && i.ExpiresAt.After(now)
}

// FilterActive drops inactive and expired incidents in place.
func FilterActive(incidents *[]Incident, now time.Time) {
	util.InPlaceFilter(incidents, func(incident Incident) bool {
		return incident.IsVotable(now)
	})
}
