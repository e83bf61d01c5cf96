package routespec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const SpecFileName = "routespecs.yaml"

// LoadRelease reads data/releases/<release>/routespecs.yaml. A release without
// the file has no RouteSpecs and every route takes the fallback path.
func LoadRelease(dataDirectory string, release string) (*Table, error) {
	path := filepath.Join(dataDirectory, "releases", release, SpecFileName)

	log.Debug().Str("path", path).Msg("Loading routespec file")

	specYaml, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if _, statErr := os.Stat(filepath.Dir(path)); statErr != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown release %q", release)}
		}

		return NewTable(release, nil)
	}
	if err != nil {
		return nil, err
	}

	return DecodeRelease(bytes.NewReader(specYaml), release)
}

// DecodeRelease reads a stream of YAML documents, one RouteSpec each.
func DecodeRelease(reader io.Reader, release string) (*Table, error) {
	decoder := yaml.NewDecoder(reader)
	validate := validator.New()

	var specs []RouteSpec

	for {
		var spec RouteSpec
		err := decoder.Decode(&spec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("release %s: %s", release, err)}
		}

		if err := validate.Struct(spec); err != nil {
			return nil, &ConfigurationError{Route: spec.Route, Reason: err.Error()}
		}

		specs = append(specs, spec)
	}

	table, err := NewTable(release, specs)
	if err != nil {
		return nil, err
	}

	log.Info().Str("release", release).Int("length", table.Len()).Msg("Loaded routespecs")

	return table, nil
}
