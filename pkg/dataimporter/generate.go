package dataimporter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/agency"
	"github.com/travigo/agencyfeed/pkg/database"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"github.com/travigo/agencyfeed/pkg/pipeline"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"github.com/travigo/agencyfeed/pkg/transforms"
	"github.com/travigo/agencyfeed/pkg/writer"
)

type Options struct {
	Input         string
	Output        string
	Prefix        string
	DataDirectory string

	// Release defaults to the agency's DefaultRelease
	Release string
	// Date defaults to today
	Date time.Time

	Format   string
	Detailed bool
	Mongo    bool
}

// Generate runs one feed load from source to output files.
func Generate(ctx context.Context, options Options) error {
	startTime := time.Now()

	config, err := agency.LoadConfig(options.DataDirectory)
	if err != nil {
		return err
	}

	release := options.Release
	if release == "" {
		release = config.DefaultRelease
	}

	date := options.Date
	if date.IsZero() {
		date = time.Now()
	}

	if err := transforms.SetupClient(options.DataDirectory); err != nil {
		return &routespec.ConfigurationError{Reason: err.Error()}
	}

	table, err := routespec.LoadRelease(options.DataDirectory, release)
	if err != nil {
		return err
	}

	rules, err := agency.LoadHeadsignRules(options.DataDirectory, release)
	if err != nil {
		return err
	}

	outputWriter, err := writer.New(options.Format, options.Output, options.Prefix, options.Detailed)
	if err != nil {
		return err
	}

	path, cleanup, err := OpenSource(ctx, options.Input)
	if err != nil {
		return err
	}
	defer cleanup()

	schedule, err := gtfs.Open(path)
	if err != nil {
		return err
	}

	feedPipeline := &pipeline.Pipeline{
		Config: config,
		Table:  table,
		Rules:  rules,
		Date:   date,
	}

	dataset, err := feedPipeline.Run(schedule)
	if err != nil {
		return err
	}

	if err := outputWriter.Write(ctx, dataset); err != nil {
		return err
	}

	if options.Mongo {
		if err := database.Connect(); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		mongoWriter := &writer.MongoWriter{}
		if err := mongoWriter.Write(ctx, dataset); err != nil {
			return err
		}
	}

	log.Info().
		Str("release", release).
		Int("routes", len(dataset.Routes)).
		Int("trips", len(dataset.Trips)).
		Int("stops", len(dataset.Stops)).
		Msgf("Operation took %s", time.Since(startTime).String())

	return nil
}
