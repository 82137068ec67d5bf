package api

import (
	"time"

	"github.com/urfave/cli/v2"
	"github.com/wayfarer/wayfarer/pkg/api/routes"
	"github.com/wayfarer/wayfarer/pkg/config"
	"github.com/wayfarer/wayfarer/pkg/fetch"
	"github.com/wayfarer/wayfarer/pkg/geocoding"
	"github.com/wayfarer/wayfarer/pkg/incidents"
	"github.com/wayfarer/wayfarer/pkg/mapbridge"
	"github.com/wayfarer/wayfarer/pkg/redis_client"
	"github.com/wayfarer/wayfarer/pkg/routing"
	"github.com/wayfarer/wayfarer/pkg/tracking"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the engine web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8081",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to the engine config file",
					},
				},
				Action: func(c *cli.Context) error {
					engineConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := mapbridge.NewPublisher()
					if err != nil {
						return err
					}

					searchCache := fetch.NewSearchCache(redis_client.Client, 24*time.Hour)

					deps := &routes.Dependencies{
						Config: engineConfig,

						Orchestrator: routing.NewOrchestrator(engineConfig.Providers.RoutingURL, engineConfig.ServiceArea),
						Searcher: geocoding.NewSearcher(
							engineConfig.Providers.GeocodingURL,
							engineConfig.Providers.GeocodingRegion,
							engineConfig.ServiceArea,
							searchCache,
						),
						Incidents: incidents.NewClient(engineConfig.Providers.IncidentAPIURL),
						Publisher: publisher,
						Tracker: &tracking.Tracker{
							ServiceArea:     engineConfig.ServiceArea,
							DefaultLocation: engineConfig.DefaultLocation,
							Publisher:       publisher,
						},
					}

					return SetupServer(c.String("listen"), deps)
				},
			},
		},
	}
}
