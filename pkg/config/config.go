// Package config holds the static engine configuration: the service area the
// engine accepts endpoints and incidents within, provider endpoints and the
// incident style table. It is loaded once at startup and treated as read
// only afterwards.
package config

import (
	"bytes"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wayfarer/wayfarer/pkg/geo"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/util"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceArea geo.BoundingBox `yaml:"service_area"`

	// Fallback display position for fixes outside the service area
	DefaultLocation geo.Coordinate `yaml:"default_location"`

	Providers struct {
		RoutingURL string `yaml:"routing_url"`

		GeocodingURL string `yaml:"geocoding_url"`
		// Appended to free text queries to keep results regional
		GeocodingRegion string `yaml:"geocoding_region"`

		IncidentAPIURL string `yaml:"incident_api_url"`
	} `yaml:"providers"`

	IncidentStyles map[string]incidents.Style `yaml:"incident_styles"`

	IncidentRadiusKm float64 `yaml:"incident_radius_km"`
}

// Defaults is the Lyon deployment the engine ships with.
func Defaults() *Config {
	config := &Config{}

	config.ServiceArea = geo.BoundingBox{
		SouthWest: geo.Coordinate{Latitude: 45.65, Longitude: 4.70},
		NorthEast: geo.Coordinate{Latitude: 45.85, Longitude: 5.00},
	}
	config.DefaultLocation = geo.Coordinate{Latitude: 45.759, Longitude: 4.845}

	config.Providers.RoutingURL = "http://localhost:8002/route"
	config.Providers.GeocodingURL = "https://nominatim.openstreetmap.org/search"
	config.Providers.GeocodingRegion = "Lyon, France"
	config.Providers.IncidentAPIURL = "http://localhost:8080"

	// Copied so a decoded config file never mutates the package table
	config.IncidentStyles = map[string]incidents.Style{}
	for kind, style := range incidents.DefaultStyles {
		config.IncidentStyles[kind] = style
	}
	config.IncidentRadiusKm = 20

	return config
}

// Load reads the YAML file at path over the defaults. An empty path checks
// WAYFARER_CONFIG and falls back to pure defaults when neither is set.
func Load(path string) (*Config, error) {
	config := Defaults()

	if path == "" {
		env := util.GetEnvironmentVariables()
		path = env["WAYFARER_CONFIG"]
	}

	if path == "" {
		log.Debug().Msg("No config file, using built in defaults")
		return config, nil
	}

	configYaml, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(configYaml))
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Msg("Loaded engine config")

	return config, nil
}
