package agency

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/cleanup"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"github.com/travigo/agencyfeed/pkg/splitter"
	"gopkg.in/yaml.v3"
)

const HeadsignsFileName = "headsigns.yaml"

// TripEnv is what an override condition can see of a trip.
type TripEnv struct {
	Route        string
	RouteID      uint64
	DirectionID  int
	HasDirection bool
	Headsign     string
}

type Override struct {
	Route string `yaml:"Route" validate:"required"`
	When  string `yaml:"When" validate:"required"`

	// Headsign replaces the cleaned feed headsign when set
	Headsign string `yaml:"Headsign"`
	// Direction replaces the raw direction flag when set
	Direction *appdata.Direction `yaml:"Direction"`

	program *vm.Program
}

type Merge struct {
	Route     string   `yaml:"Route" validate:"required"`
	Headsigns []string `yaml:"Headsigns" validate:"min=2"`
	Into      string   `yaml:"Into" validate:"required"`
}

// HeadsignRules decide headsigns and direction indexes of routes that have
// no RouteSpec in a release.
type HeadsignRules struct {
	// Strict routes must be resolved by an override
	Strict []string `yaml:"Strict"`
	// FallbackRoutes, when set, are the only routes allowed to use the feed
	// headsign and direction unchanged
	FallbackRoutes []string `yaml:"FallbackRoutes"`

	Overrides []*Override `yaml:"Overrides" validate:"dive"`
	Merges    []*Merge    `yaml:"Merges" validate:"dive"`
}

type Resolution struct {
	Headsign  string
	Direction appdata.Direction
}

// MergeError reports two headsigns on the same output trip with no merge rule.
type MergeError struct {
	Route     string
	Headsigns []string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge: route %s: no rule to merge headsigns %q", e.Route, e.Headsigns)
}

func LoadHeadsignRules(dataDirectory string, release string) (*HeadsignRules, error) {
	path := filepath.Join(dataDirectory, "releases", release, HeadsignsFileName)

	log.Debug().Str("path", path).Msg("Loading headsigns file")

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &HeadsignRules{}, nil
	}
	if err != nil {
		return nil, err
	}

	return DecodeHeadsignRules(bytes.NewReader(data))
}

func DecodeHeadsignRules(reader io.Reader) (*HeadsignRules, error) {
	rules := &HeadsignRules{}

	err := yaml.NewDecoder(reader).Decode(rules)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &routespec.ConfigurationError{Reason: fmt.Sprintf("headsigns: %s", err)}
	}

	v := validator.New()
	if err := v.Struct(rules); err != nil {
		return nil, &routespec.ConfigurationError{Reason: fmt.Sprintf("headsigns: %s", err)}
	}

	for _, override := range rules.Overrides {
		if _, err := routespec.ParseRouteID(override.Route); err != nil {
			return nil, err
		}

		program, err := expr.Compile(override.When, expr.Env(TripEnv{}), expr.AsBool())
		if err != nil {
			return nil, &routespec.ConfigurationError{Route: override.Route, Reason: fmt.Sprintf("override %q: %s", override.When, err)}
		}
		override.program = program
	}

	return rules, nil
}

// Resolve gives the headsign and direction index of a trip on a route without
// a RouteSpec.
func (r *HeadsignRules) Resolve(trip *gtfs.RawTrip) (Resolution, error) {
	routeID, err := routespec.ParseRouteID(trip.RouteID)
	if err != nil {
		return Resolution{}, err
	}

	env := TripEnv{
		Route:        trip.RouteID,
		RouteID:      routeID,
		HasDirection: trip.HasDirection(),
		Headsign:     trip.Headsign,
	}
	if trip.HasDirection() {
		env.DirectionID = *trip.DirectionID
	}

	resolution := Resolution{
		Headsign:  cleanup.TripHeadsign(trip.Headsign),
		Direction: appdata.Direction(env.DirectionID),
	}

	for _, override := range r.Overrides {
		if override.Route != trip.RouteID {
			continue
		}

		output, err := expr.Run(override.program, env)
		if err != nil {
			return Resolution{}, fmt.Errorf("override %q: %w", override.When, err)
		}
		if matched, _ := output.(bool); !matched {
			continue
		}

		if override.Headsign != "" {
			resolution.Headsign = override.Headsign
		}
		if override.Direction != nil {
			resolution.Direction = *override.Direction
		}

		return resolution, nil
	}

	if slices.Contains(r.Strict, trip.RouteID) {
		return Resolution{}, &splitter.ClassificationError{
			Route:  trip.RouteID,
			TripID: trip.TripID,
			Reason: fmt.Sprintf("unexpected headsign %q", trip.Headsign),
		}
	}

	if len(r.FallbackRoutes) > 0 && !slices.Contains(r.FallbackRoutes, trip.RouteID) {
		return Resolution{}, &splitter.ClassificationError{
			Route:  trip.RouteID,
			TripID: trip.TripID,
			Reason: "route has no routespec",
		}
	}

	return resolution, nil
}

// Merge picks the headsign of an output trip when two raw trips disagree.
func (r *HeadsignRules) Merge(route string, current string, other string) (string, error) {
	if current == other {
		return current, nil
	}

	for _, merge := range r.Merges {
		if merge.Route != route {
			continue
		}

		if slices.Contains(merge.Headsigns, current) && slices.Contains(merge.Headsigns, other) {
			return merge.Into, nil
		}
	}

	return "", &MergeError{Route: route, Headsigns: []string{current, other}}
}
