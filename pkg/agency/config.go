package agency

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"gopkg.in/yaml.v3"
)

const ConfigFileName = "agency.yaml"

const (
	StopIDSourceCode = "code"
	StopIDSourceID   = "id"
)

type Config struct {
	Name  string `yaml:"Name" validate:"required"`
	Color string `yaml:"Color" validate:"required,len=6,hexadecimal"`

	// StopIDSource selects the GTFS column numeric stop ids come from
	StopIDSource string `yaml:"StopIDSource" validate:"oneof=code id"`

	DefaultRelease    string `yaml:"DefaultRelease" validate:"required"`
	ServiceWindowDays int    `yaml:"ServiceWindowDays" validate:"gte=1,lte=366"`

	RoutesWithoutColour []string `yaml:"RoutesWithoutColour"`
}

func LoadConfig(dataDirectory string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dataDirectory, ConfigFileName))
	if err != nil {
		return nil, err
	}

	config := Config{
		StopIDSource:      StopIDSourceCode,
		ServiceWindowDays: 60,
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &routespec.ConfigurationError{Reason: err.Error()}
	}

	v := validator.New()
	if err := v.Struct(config); err != nil {
		return nil, &routespec.ConfigurationError{Reason: err.Error()}
	}

	return &config, nil
}

func (c *Config) AllowsMissingColour(routeCode string) bool {
	return slices.Contains(c.RoutesWithoutColour, routeCode)
}
