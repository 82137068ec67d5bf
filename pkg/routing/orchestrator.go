package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/fetch"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/polyline"
	"github.com/wayfarer/wayfarer/pkg/util"
)

// Provider payloads that decode as a trip but carry nonsense summaries show
// up as absurd lengths - anything over this is rejected as invalid.
const maxSaneRouteLengthKm = 100

const alternateCount = 2

// Orchestrator owns the route request lifecycle: build the provider request,
// fetch it resiliently, validate, decode, filter to the service area and
// rank the candidates.
type Orchestrator struct {
	Endpoint    string
	ServiceArea geo.BoundingBox

	HTTPClient *http.Client

	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
}

func NewOrchestrator(endpoint string, area geo.BoundingBox) *Orchestrator {
	return &Orchestrator{
		Endpoint:    endpoint,
		ServiceArea: area,

		HTTPClient: http.DefaultClient,

		Timeout:      fetch.DefaultTimeout,
		MaxRetries:   fetch.DefaultMaxRetries,
		InitialDelay: fetch.DefaultInitialDelay,
	}
}

// CalculateRoute requests the primary route plus alternates between two
// points. Identical endpoints fail before any network work. The primary trip
// must be valid - invalid alternates are just dropped.
func (o *Orchestrator) CalculateRoute(ctx context.Context, start geo.Coordinate, end geo.Coordinate, mode TransportMode, avoidTolls bool) (*RouteSet, error) {
	if start == end {
		return nil, ErrIdenticalEndpoints
	}

	if !mode.Valid() {
		log.Debug().Str("mode", string(mode)).Msg("Unknown transport mode, falling back to auto")
		mode = TransportModeAuto
	}

	request := providerRequest{
		Locations: []providerLocation{
			{Lat: start.Latitude, Lon: start.Longitude},
			{Lat: end.Latitude, Lon: end.Longitude},
		},
		Costing:        mode,
		Alternates:     alternateCount,
		CostingOptions: costingOptionsFor(mode, avoidTolls),
	}

	response, err := fetch.WithRetry(ctx, func() (*providerResponse, error) {
		return o.fetchRoute(ctx, request)
	}, o.MaxRetries, o.InitialDelay)
	if err != nil {
		return nil, err
	}

	if !validTrip(response.Trip) {
		return nil, ErrInvalidRoute
	}

	primary, err := o.buildCandidate(response.Trip)
	if err != nil {
		return nil, err
	}

	candidates := []RouteCandidate{*primary}
	for index, alternate := range response.Alternates {
		if !validTrip(alternate.Trip) {
			log.Debug().Int("alternate", index).Msg("Dropping invalid alternate trip")
			continue
		}

		candidate, err := o.buildCandidate(alternate.Trip)
		if err != nil {
			log.Debug().Err(err).Int("alternate", index).Msg("Dropping undecodable alternate trip")
			continue
		}

		candidates = append(candidates, *candidate)
	}

	return &RouteSet{
		Candidates:       candidates,
		RecommendedIndex: recommendedIndex(candidates),
		SelectedIndex:    0,
	}, nil
}

// SelectAndConfirm picks a candidate by index, re-validating its geometry
// defensively before handing it back with the selection applied.
func (o *Orchestrator) SelectAndConfirm(set *RouteSet, index int) (*RouteSet, error) {
	if index < 0 || index >= len(set.Candidates) {
		return nil, ErrIndexOutOfRange
	}

	geometry, err := o.decodeAndFilter(set.Candidates[index].encodedShape)
	if err != nil {
		return nil, err
	}
	if len(geometry) == 0 {
		return nil, ErrEmptyGeometry
	}

	updated := *set
	updated.Candidates = make([]RouteCandidate, len(set.Candidates))
	copy(updated.Candidates, set.Candidates)
	updated.Candidates[index].Geometry = geometry
	updated.SelectedIndex = index

	return &updated, nil
}

func (o *Orchestrator) fetchRoute(ctx context.Context, request providerRequest) (*providerResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	httpRequest, err := http.NewRequest("POST", o.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := fetch.DoWithTimeout(ctx, o.HTTPClient, httpRequest, o.Timeout)
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(httpResponse.Body)
		return nil, fmt.Errorf("route provider returned %d: %s", httpResponse.StatusCode, util.TrimString(string(raw), 200))
	}

	var response providerResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&response); err != nil {
		return nil, err
	}

	return &response, nil
}

func validTrip(trip providerTrip) bool {
	return len(trip.Legs) > 0 &&
		trip.Legs[0].Shape != "" &&
		trip.Summary != nil &&
		trip.Summary.Length <= maxSaneRouteLengthKm
}

func (o *Orchestrator) buildCandidate(trip providerTrip) (*RouteCandidate, error) {
	geometry, err := o.decodeAndFilter(trip.Legs[0].Shape)
	if err != nil {
		return nil, err
	}
	if len(geometry) == 0 {
		return nil, ErrOutOfServiceArea
	}

	maneuvers := make([]Maneuver, 0, len(trip.Legs[0].Maneuvers))
	hasToll := trip.Summary.HasToll
	for _, maneuver := range trip.Legs[0].Maneuvers {
		maneuvers = append(maneuvers, Maneuver{
			Kind:        maneuverKindForType(maneuver.Type),
			Instruction: maneuver.Instruction,
			LengthKm:    maneuver.Length,
			Toll:        maneuver.Toll,
		})
		hasToll = hasToll || maneuver.Toll
	}

	return &RouteCandidate{
		Geometry:  geometry,
		Maneuvers: maneuvers,

		TotalTimeSeconds: trip.Summary.Time,
		TotalLengthKm:    trip.Summary.Length,
		HasToll:          hasToll,

		encodedShape: trip.Legs[0].Shape,
	}, nil
}

func (o *Orchestrator) decodeAndFilter(encodedShape string) ([]geo.Coordinate, error) {
	coords, err := polyline.Decode(encodedShape, polyline.DefaultPrecision)
	if err != nil {
		return nil, err
	}

	util.InPlaceFilter(&coords, func(coord geo.Coordinate) bool {
		return o.ServiceArea.Contains(coord)
	})

	return coords, nil
}
