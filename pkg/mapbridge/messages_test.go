package mapbridge

import (
	"errors"
	"testing"
)

func TestParseInboundEvent(t *testing.T) {
	event, err := ParseInboundEvent([]byte(`{"type":"routeClick","latitude":45.75,"longitude":4.83}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Type != MessageTypeRouteClick {
		t.Fatalf("type = %s", event.Type)
	}

	location := event.Location()
	if location.Latitude != 45.75 || location.Longitude != 4.83 {
		t.Fatalf("location = %v", location)
	}
}

func TestParseInboundEventRejectsMalformed(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{`},
		{"unknown type", `{"type":"zoomChanged","latitude":45.75,"longitude":4.83}`},
		{"outbound type", `{"type":"setRoute","latitude":45.75,"longitude":4.83}`},
		{"missing latitude", `{"type":"routeClick","longitude":4.83}`},
		{"missing longitude", `{"type":"incidentClick","latitude":45.75}`},
		{"latitude out of range", `{"type":"routeClick","latitude":91,"longitude":4.83}`},
		{"empty", ``},
	}

	for _, testCase := range cases {
		if _, err := ParseInboundEvent([]byte(testCase.payload)); !errors.Is(err, ErrMalformedMessage) {
			t.Errorf("%s: error = %v, want ErrMalformedMessage", testCase.name, err)
		}
	}
}

func TestMapTypeValid(t *testing.T) {
	for _, kind := range []MapType{MapTypeStandard, MapTypeSatellite, MapTypeHybrid, MapTypeTerrain} {
		if !kind.Valid() {
			t.Errorf("map type %s reported invalid", kind)
		}
	}
	if MapType("globe").Valid() {
		t.Errorf("unknown map type reported valid")
	}
}

func TestRouteColorSlotHex(t *testing.T) {
	if hex := RouteColorSlotPrimary.Hex(); hex != "#4CAF50" {
		t.Errorf("primary = %s", hex)
	}
	if hex := RouteColorSlotAlternate.Hex(); hex != "#2196F3" {
		t.Errorf("alternate = %s", hex)
	}
}
