package dataimporter

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/agency"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"github.com/travigo/agencyfeed/pkg/splitter"
	"github.com/travigo/agencyfeed/pkg/writer"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

func dataFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "data",
		Usage:   "Directory holding agency.yaml, transforms and releases",
		Value:   "data",
		EnvVars: []string{"AGENCYFEED_DATA"},
	}
}

func releaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "release",
		Usage:   "Release of the route configuration to use (defaults to the agency's DefaultRelease)",
		EnvVars: []string{"AGENCYFEED_RELEASE"},
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Convert a GTFS feed into the app dataset",
		ArgsUsage: "[input [output [prefix]]]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Usage:   "GTFS zip file or URL",
				Value:   "input/gtfs.zip",
				EnvVars: []string{"AGENCYFEED_INPUT"},
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "Output directory",
				Value:   "output/",
				EnvVars: []string{"AGENCYFEED_OUTPUT"},
			},
			&cli.StringFlag{
				Name:    "prefix",
				Usage:   "Prefix of every output file name",
				EnvVars: []string{"AGENCYFEED_PREFIX"},
			},
			dataFlag(),
			releaseFlag(),
			&cli.TimestampFlag{
				Name:    "date",
				Usage:   "First day of the service window (YYYY-MM-DD, defaults to today)",
				Layout:  DateLayout,
				EnvVars: []string{"AGENCYFEED_DATE"},
			},
			&cli.StringFlag{
				Name:    "format",
				Usage:   "Output format (resource or json)",
				Value:   writer.FormatResource,
				EnvVars: []string{"AGENCYFEED_FORMAT"},
			},
			&cli.BoolFlag{
				Name:    "detailed",
				Usage:   "Include stop schedules in the json output",
				EnvVars: []string{"AGENCYFEED_DETAILED"},
			},
			&cli.BoolFlag{
				Name:    "mongo",
				Usage:   "Also upsert routes, trips and stops into MongoDB",
				EnvVars: []string{"AGENCYFEED_MONGO"},
			},
		},
		Action: func(c *cli.Context) error {
			options := Options{
				Input:         c.String("input"),
				Output:        c.String("output"),
				Prefix:        c.String("prefix"),
				DataDirectory: c.String("data"),
				Release:       c.String("release"),
				Format:        c.String("format"),
				Detailed:      c.Bool("detailed"),
				Mongo:         c.Bool("mongo"),
			}

			if date := c.Timestamp("date"); date != nil {
				options.Date = *date
			}

			positional := []*string{&options.Input, &options.Output, &options.Prefix}
			if c.NArg() > len(positional) {
				return cli.Exit(fmt.Sprintf("too many arguments, usage: %s %s", c.Command.Name, c.Command.ArgsUsage), ExitFailure)
			}
			for i, arg := range c.Args().Slice() {
				*positional[i] = arg
			}

			log.Info().
				Str("input", options.Input).
				Str("output", options.Output).
				Str("prefix", options.Prefix).
				Msg("Generating dataset")

			return exitError(Generate(c.Context, options))
		},
	}
}

func RegisterSpecsCLI() *cli.Command {
	return &cli.Command{
		Name:  "specs",
		Usage: "Validate a release and print its RouteSpec table",
		Flags: []cli.Flag{
			dataFlag(),
			releaseFlag(),
		},
		Action: func(c *cli.Context) error {
			release := c.String("release")
			if release == "" {
				config, err := agency.LoadConfig(c.String("data"))
				if err != nil {
					return exitError(err)
				}
				release = config.DefaultRelease
			}

			table, err := routespec.LoadRelease(c.String("data"), release)
			if err != nil {
				return exitError(err)
			}

			if _, err := splitter.New(table, nil); err != nil {
				return exitError(err)
			}

			if _, err := agency.LoadHeadsignRules(c.String("data"), release); err != nil {
				return exitError(err)
			}

			for _, routeID := range table.RouteIDs() {
				spec, _ := table.Lookup(routeID)
				pretty.Fprintf(c.App.Writer, "%s: %# v\n", routespec.FormatRouteID(routeID), spec)
			}

			log.Info().Str("release", release).Int("routes", table.Len()).Msg("Release is valid")

			return nil
		},
	}
}
