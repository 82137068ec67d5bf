// Package geocoding turns free text place queries into coordinates via an
// external Nominatim style endpoint, constrained to the service area.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/fetch"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/util"
)

const resultLimit = 5

// rawPlace is the provider's wire shape - coordinates arrive as strings.
type rawPlace struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}

type Place struct {
	PlaceID     string         `json:"place_id"`
	DisplayName string         `json:"display_name"`
	Location    geo.Coordinate `json:"location"`
}

// Searcher performs cached, debounced place search. Two of these can run
// side by side (start and end fields) sharing the one cache - the cache is
// redis backed and safe under concurrent lookups and inserts.
type Searcher struct {
	Endpoint string
	// Appended to every query to keep results regional, e.g. "Lyon, France"
	Region      string
	ServiceArea geo.BoundingBox

	HTTPClient *http.Client
	Cache      *fetch.SearchCache
	Debouncer  *fetch.Debouncer

	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
}

func NewSearcher(endpoint string, region string, area geo.BoundingBox, cache *fetch.SearchCache) *Searcher {
	return &Searcher{
		Endpoint:    endpoint,
		Region:      region,
		ServiceArea: area,

		HTTPClient: http.DefaultClient,
		Cache:      cache,
		Debouncer:  fetch.NewDebouncer(fetch.DefaultDebounceQuiet),

		Timeout:      fetch.DefaultTimeout,
		MaxRetries:   fetch.DefaultMaxRetries,
		InitialDelay: fetch.DefaultInitialDelay,
	}
}

// Search resolves a query, hitting the cache first. Results outside the
// service area are discarded before caching so a hit never needs re-filtering.
func (s *Searcher) Search(ctx context.Context, query string) ([]Place, error) {
	if query == "" {
		return nil, nil
	}

	if s.Cache != nil {
		var cached []Place
		if s.Cache.Lookup(ctx, query, &cached) {
			log.Debug().Str("query", query).Msg("Search cache hit")
			return cached, nil
		}
	}

	places, err := fetch.WithRetry(ctx, func() ([]Place, error) {
		return s.fetchPlaces(ctx, query)
	}, s.MaxRetries, s.InitialDelay)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Store(ctx, query, places); err != nil {
			log.Debug().Err(err).Str("query", query).Msg("Failed to store search results")
		}
	}

	return places, nil
}

// SearchDebounced coalesces rapid keystrokes: apply only runs for the most
// recent query once input has been quiet, and a superseded in-flight search
// never reaches apply.
func (s *Searcher) SearchDebounced(query string, apply func([]Place, error)) {
	s.Debouncer.Trigger(func(current func() bool) {
		places, err := s.Search(context.Background(), query)
		if !current() {
			log.Debug().Str("query", query).Msg("Discarding superseded search result")
			return
		}

		apply(places, err)
	})
}

func (s *Searcher) fetchPlaces(ctx context.Context, query string) ([]Place, error) {
	regionQuery := query
	if s.Region != "" {
		regionQuery = query + ", " + s.Region
	}

	parameters := url.Values{}
	parameters.Set("q", regionQuery)
	parameters.Set("format", "json")
	parameters.Set("limit", fmt.Sprintf("%d", resultLimit))
	parameters.Set("addressdetails", "1")

	request, err := http.NewRequest("GET", s.Endpoint+"?"+parameters.Encode(), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", "wayfarer/1.0")
	request.Header.Set("Accept", "application/json")

	response, err := fetch.DoWithTimeout(ctx, s.HTTPClient, request, s.Timeout)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(response.Body)
		return nil, fmt.Errorf("geocoding provider returned %d: %s", response.StatusCode, util.TrimString(string(raw), 200))
	}

	var rawPlaces []rawPlace
	if err := json.NewDecoder(response.Body).Decode(&rawPlaces); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(rawPlaces))
	for _, raw := range rawPlaces {
		latitude, latErr := strconv.ParseFloat(raw.Lat, 64)
		longitude, lonErr := strconv.ParseFloat(raw.Lon, 64)
		if latErr != nil || lonErr != nil {
			log.Debug().Str("place", raw.DisplayName).Msg("Dropping place with unparsable coordinates")
			continue
		}

		places = append(places, Place{
			PlaceID:     raw.PlaceID.String(),
			DisplayName: raw.DisplayName,
			Location:    geo.Coordinate{Latitude: latitude, Longitude: longitude},
		})
	}

	util.InPlaceFilter(&places, func(place Place) bool {
		return s.ServiceArea.Contains(place.Location)
	})

	return places, nil
}
