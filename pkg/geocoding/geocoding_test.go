package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/wayfarer/wayfarer/pkg/fetch"
	"github.com/wayfarer/wayfarer/pkg/geo"
)

var lyonArea = geo.BoundingBox{
	SouthWest: geo.Coordinate{Latitude: 45.65, Longitude: 4.70},
	NorthEast: geo.Coordinate{Latitude: 45.85, Longitude: 5.00},
}

const providerResponse = `[
	{"place_id": 101, "display_name": "Place Bellecour, Lyon", "lat": "45.7578", "lon": "4.8320"},
	{"place_id": 102, "display_name": "Bellecourt, Somewhere Else", "lat": "50.51", "lon": "2.93"},
	{"place_id": 103, "display_name": "Rue Bellecour, Lyon", "lat": "45.7581", "lon": "4.8335"}
]`

func newTestSearcher(t *testing.T, handler http.HandlerFunc) (*Searcher, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	redisServer := miniredis.RunT(t)
	cache := fetch.NewSearchCache(redis.NewClient(&redis.Options{Addr: redisServer.Addr()}), time.Hour)

	searcher := NewSearcher(server.URL, "Lyon, France", lyonArea, cache)
	searcher.HTTPClient = server.Client()
	searcher.Debouncer = fetch.NewDebouncer(30 * time.Millisecond)
	searcher.InitialDelay = time.Millisecond

	return searcher, server
}

func TestSearchFiltersToServiceArea(t *testing.T) {
	searcher, _ := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		if query := r.URL.Query().Get("q"); query != "bellecour, Lyon, France" {
			t.Errorf("query = %q, want the region suffix appended", query)
		}
		w.Write([]byte(providerResponse))
	})

	places, err := searcher.Search(context.Background(), "bellecour")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(places) != 2 {
		t.Fatalf("got %d places, want 2 inside the service area", len(places))
	}
	if places[0].PlaceID != "101" || places[1].PlaceID != "103" {
		t.Fatalf("places = %+v", places)
	}
	if places[0].Location.Latitude != 45.7578 {
		t.Fatalf("latitude not parsed: %+v", places[0].Location)
	}
}

func TestSearchCacheHitSkipsNetwork(t *testing.T) {
	var requests atomic.Int32
	searcher, _ := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(providerResponse))
	})

	ctx := context.Background()
	if _, err := searcher.Search(ctx, "bellecour"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Differently cased and padded query hits the same cache entry
	if _, err := searcher.Search(ctx, "  Bellecour "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests.Load() != 1 {
		t.Fatalf("provider was called %d times, want 1", requests.Load())
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	searcher, _ := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("provider should not be called for an empty query")
	})

	places, err := searcher.Search(context.Background(), "")
	if err != nil || places != nil {
		t.Fatalf("empty query = %v, %v", places, err)
	}
}

func TestSearchDebouncedCoalesces(t *testing.T) {
	var requests atomic.Int32
	searcher, _ := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(providerResponse))
	})

	applied := make(chan []Place, 3)
	for _, query := range []string{"b", "be", "bellecour"} {
		searcher.SearchDebounced(query, func(places []Place, err error) {
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			applied <- places
		})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case places := <-applied:
		if len(places) != 2 {
			t.Fatalf("applied %d places, want 2", len(places))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced search never applied")
	}

	// Give any stray calls a moment to show up
	time.Sleep(100 * time.Millisecond)
	if requests.Load() != 1 {
		t.Fatalf("provider was called %d times, want 1 for the final query", requests.Load())
	}
	if len(applied) != 0 {
		t.Fatalf("superseded queries also applied results")
	}
}

func TestSearchProviderError(t *testing.T) {
	var requests atomic.Int32
	searcher, _ := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := searcher.Search(context.Background(), "bellecour"); err == nil {
		t.Fatalf("expected an error from a failing provider")
	}

	// 1 initial attempt plus the configured retries
	if requests.Load() != int32(searcher.MaxRetries)+1 {
		t.Fatalf("provider was called %d times, want %d", requests.Load(), searcher.MaxRetries+1)
	}
}
