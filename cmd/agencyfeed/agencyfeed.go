package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/dataimporter"
	"github.com/urfave/cli/v2"
)

func main() {
	if os.Getenv("AGENCYFEED_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = log.Output(os.Stderr)
	}

	if os.Getenv("AGENCYFEED_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "agencyfeed",
		Description: "Turns the Oakville Transit GTFS feed into the app route, trip and stop dataset",

		Commands: []*cli.Command{
			dataimporter.RegisterCLI(),
			dataimporter.RegisterSpecsCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
