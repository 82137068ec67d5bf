package routing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/polyline"
)

var lyonArea = geo.BoundingBox{
	SouthWest: geo.Coordinate{Latitude: 45.65, Longitude: 4.70},
	NorthEast: geo.Coordinate{Latitude: 45.85, Longitude: 5.00},
}

func encodeShape(coords ...geo.Coordinate) string {
	return polyline.Encode(coords, polyline.DefaultPrecision)
}

func tripFixture(timeSeconds float64, lengthKm float64, shape string) map[string]any {
	return map[string]any{
		"legs": []map[string]any{
			{
				"shape": shape,
				"maneuvers": []map[string]any{
					{"type": 1, "instruction": "Head north", "length": lengthKm / 2},
					{"type": 4, "instruction": "Arrive", "length": lengthKm / 2},
				},
			},
		},
		"summary": map[string]any{"time": timeSeconds, "length": lengthKm},
	}
}

func newTestOrchestrator(t *testing.T, handler http.HandlerFunc) *Orchestrator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	orchestrator := NewOrchestrator(server.URL, lyonArea)
	orchestrator.HTTPClient = server.Client()
	orchestrator.InitialDelay = time.Millisecond

	return orchestrator
}

func TestCalculateRouteIdenticalEndpointsNeverReachesNetwork(t *testing.T) {
	var requests atomic.Int32
	orchestrator := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	point := geo.Coordinate{Latitude: 45.75, Longitude: 4.83}
	_, err := orchestrator.CalculateRoute(context.Background(), point, point, TransportModeAuto, false)

	if !errors.Is(err, ErrIdenticalEndpoints) {
		t.Fatalf("error = %v, want ErrIdenticalEndpoints", err)
	}
	if requests.Load() != 0 {
		t.Fatalf("provider was called %d times for identical endpoints", requests.Load())
	}
}

func TestCalculateRouteLyonScenario(t *testing.T) {
	shape := encodeShape(
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.76, Longitude: 4.84},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
	)

	orchestrator := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		var request providerRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("undecodable request body: %v", err)
		}
		if request.Costing != TransportModeAuto || request.Alternates != 2 {
			t.Errorf("request = %+v", request)
		}
		if len(request.Locations) != 2 || request.Locations[0].Lat != 45.75 {
			t.Errorf("locations = %+v", request.Locations)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"trip": tripFixture(620, 3.2, shape),
		})
	})

	set, err := orchestrator.CalculateRoute(
		context.Background(),
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
		TransportModeAuto, false,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(set.Candidates))
	}

	primary := set.Candidates[0]
	if len(primary.Geometry) == 0 {
		t.Fatalf("primary geometry is empty")
	}
	for _, coord := range primary.Geometry {
		if !lyonArea.Contains(coord) {
			t.Fatalf("decoded point %v outside the service area", coord)
		}
	}
	if primary.TotalTimeSeconds != 620 || primary.TotalLengthKm != 3.2 {
		t.Fatalf("summary = %f s %f km", primary.TotalTimeSeconds, primary.TotalLengthKm)
	}
	if len(primary.Maneuvers) != 2 || primary.Maneuvers[0].Kind != ManeuverKindStart {
		t.Fatalf("maneuvers = %+v", primary.Maneuvers)
	}
	if set.SelectedIndex != 0 {
		t.Fatalf("selected index = %d, want 0", set.SelectedIndex)
	}
}

func TestCalculateRouteRecommendsFastestCandidate(t *testing.T) {
	shape := encodeShape(
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
	)

	orchestrator := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"trip": tripFixture(620, 3.2, shape),
			"alternates": []map[string]any{
				{"trip": tripFixture(480, 3.8, shape)},
				{"trip": tripFixture(900, 2.9, shape)},
			},
		})
	})

	set, err := orchestrator.CalculateRoute(
		context.Background(),
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
		TransportModeAuto, false,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(set.Candidates))
	}
	if set.RecommendedIndex != 1 {
		t.Fatalf("recommended index = %d, want 1", set.RecommendedIndex)
	}
	if set.SelectedIndex != 0 {
		t.Fatalf("selected index = %d, want 0 on a fresh calculation", set.SelectedIndex)
	}
}

func TestCalculateRouteDropsInvalidAlternates(t *testing.T) {
	shape := encodeShape(
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
	)

	orchestrator := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"trip": tripFixture(620, 3.2, shape),
			"alternates": []map[string]any{
				// Summary length beyond the sanity bound
				{"trip": tripFixture(700, 4500, shape)},
				// No shape at all
				{"trip": map[string]any{
					"legs":    []map[string]any{{"shape": ""}},
					"summary": map[string]any{"time": 500.0, "length": 3.0},
				}},
				{"trip": tripFixture(550, 3.4, shape)},
			},
		})
	})

	set, err := orchestrator.CalculateRoute(
		context.Background(),
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
		TransportModeAuto, false,
	)
	if err != nil {
		t.Fatalf("invalid alternates must not fail the calculation: %v", err)
	}

	if len(set.Candidates) != 2 {
		t.Fatalf("got %d candidates, want primary plus 1 valid alternate", len(set.Candidates))
	}
	if set.Candidates[1].TotalTimeSeconds != 550 {
		t.Fatalf("surviving alternate = %+v", set.Candidates[1])
	}
}

func TestCalculateRouteInvalidPrimary(t *testing.T) {
	orchestrator := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"trip": map[string]any{
				"legs":    []map[string]any{{"shape": ""}},
				"summary": map[string]any{"time": 100.0, "length": 1.0},
			},
		})
	})

	_, err := orchestrator.CalculateRoute(
		context.Background(),
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
		TransportModeAuto, false,
	)
	if !errors.Is(err, ErrInvalidRoute) {
		t.Fatalf("error = %v, want ErrInvalidRoute", err)
	}
}

func TestCalculateRouteOutOfServiceArea(t *testing.T) {
	// A perfectly valid route entirely in Paris
	shape := encodeShape(
		geo.Coordinate{Latitude: 48.85, Longitude: 2.35},
		geo.Coordinate{Latitude: 48.86, Longitude: 2.36},
	)

	orchestrator := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"trip": tripFixture(300, 1.5, shape),
		})
	})

	_, err := orchestrator.CalculateRoute(
		context.Background(),
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
		TransportModeAuto, false,
	)
	if !errors.Is(err, ErrOutOfServiceArea) {
		t.Fatalf("error = %v, want ErrOutOfServiceArea", err)
	}
}

func TestCalculateRouteRetriesProviderFailures(t *testing.T) {
	var requests atomic.Int32
	orchestrator := newTestOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := orchestrator.CalculateRoute(
		context.Background(),
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
		TransportModeAuto, false,
	)
	if err == nil {
		t.Fatalf("expected the provider failure to surface")
	}

	if requests.Load() != 3 {
		t.Fatalf("provider was called %d times, want 3 (1 initial + 2 retries)", requests.Load())
	}
}

func TestSelectAndConfirm(t *testing.T) {
	shape := encodeShape(
		geo.Coordinate{Latitude: 45.75, Longitude: 4.83},
		geo.Coordinate{Latitude: 45.77, Longitude: 4.86},
	)

	orchestrator := NewOrchestrator("unused", lyonArea)

	set := &RouteSet{
		Candidates: []RouteCandidate{
			{TotalTimeSeconds: 620, encodedShape: shape},
			{TotalTimeSeconds: 480, encodedShape: shape},
		},
	}

	confirmed, err := orchestrator.SelectAndConfirm(set, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmed.SelectedIndex != 1 {
		t.Fatalf("selected index = %d, want 1", confirmed.SelectedIndex)
	}
	if len(confirmed.Selected().Geometry) == 0 {
		t.Fatalf("confirm did not refresh the candidate geometry")
	}
	// The original set is left untouched
	if set.SelectedIndex != 0 {
		t.Fatalf("confirm mutated the input set")
	}
}

func TestSelectAndConfirmIndexOutOfRange(t *testing.T) {
	orchestrator := NewOrchestrator("unused", lyonArea)
	set := &RouteSet{Candidates: []RouteCandidate{{}}}

	if _, err := orchestrator.SelectAndConfirm(set, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := orchestrator.SelectAndConfirm(set, -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSelectAndConfirmEmptyGeometry(t *testing.T) {
	// Geometry decodes fine but sits wholly outside the service area
	shape := encodeShape(
		geo.Coordinate{Latitude: 48.85, Longitude: 2.35},
		geo.Coordinate{Latitude: 48.86, Longitude: 2.36},
	)

	orchestrator := NewOrchestrator("unused", lyonArea)
	set := &RouteSet{Candidates: []RouteCandidate{{encodedShape: shape}}}

	if _, err := orchestrator.SelectAndConfirm(set, 0); !errors.Is(err, ErrEmptyGeometry) {
		t.Fatalf("error = %v, want ErrEmptyGeometry", err)
	}
}

func TestRecommendedIndexTieKeepsFirst(t *testing.T) {
	candidates := []RouteCandidate{
		{TotalTimeSeconds: 480},
		{TotalTimeSeconds: 480},
		{TotalTimeSeconds: 620},
	}

	if index := recommendedIndex(candidates); index != 0 {
		t.Fatalf("recommended index = %d, want first occurrence 0", index)
	}
}
