package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"github.com/wayfarer/wayfarer/pkg/api"
	"github.com/wayfarer/wayfarer/pkg/mapbridge"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("WAYFARER_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("WAYFARER_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "wayfarer",
		Description: "Single binary of truth for Wayfarer - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			mapbridge.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
