package transforms

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var transforms []*TransformDefinition

// SetupClient loads every transform definition under <data>/transforms.
func SetupClient(dataDirectory string) error {
	var loaded []*TransformDefinition

	err := filepath.Walk(filepath.Join(dataDirectory, "transforms"),
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading transforms file")

			transformYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoder := yaml.NewDecoder(bytes.NewReader(transformYaml))

			for {
				var transformDefinition TransformDefinition
				err := decoder.Decode(&transformDefinition)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				loaded = append(loaded, &transformDefinition)
			}

			return nil
		})
	if err != nil {
		return err
	}

	transforms = loaded

	log.Info().Int("length", len(transforms)).Msg("Loaded transforms")

	return nil
}
