package dataimporter

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/agency"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"github.com/travigo/agencyfeed/pkg/splitter"
	"github.com/urfave/cli/v2"
)

const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitConfiguration  = 2
	ExitClassification = 3
)

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var configurationError *routespec.ConfigurationError
	if errors.As(err, &configurationError) {
		return ExitConfiguration
	}

	var classificationError *splitter.ClassificationError
	if errors.As(err, &classificationError) {
		return ExitClassification
	}

	var mergeError *agency.MergeError
	if errors.As(err, &mergeError) {
		return ExitClassification
	}

	return ExitFailure
}

// exitError logs err and turns it into the exit code the process ends with.
func exitError(err error) error {
	if err == nil {
		return nil
	}

	log.Error().Err(err).Int("code", ExitCode(err)).Msg("Failed")

	return cli.Exit("", ExitCode(err))
}
