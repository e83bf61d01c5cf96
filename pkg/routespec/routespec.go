package routespec

import (
	"fmt"

	"github.com/travigo/agencyfeed/pkg/appdata"
	"gopkg.in/yaml.v3"
)

// Side names one of the two directions of a RouteSpec.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideA {
		return "A"
	}

	return "B"
}

func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}

	return SideA
}

// StopRef is one entry of a reference stop sequence. Ambiguous stops are
// shared anchors that both directions legitimately pass through; they do not
// count when two references compete for the same trip.
//
// In YAML a plain scalar is a preferred stop, a mapping carries the flag:
//
//	Stops: ["1212", {ID: "877", Ambiguous: true}, "185"]
type StopRef struct {
	ID        string `yaml:"ID" validate:"required"`
	Ambiguous bool   `yaml:"Ambiguous"`
}

func (s *StopRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s.ID = value.Value
		s.Ambiguous = false
		return nil
	case yaml.MappingNode:
		type plain StopRef
		var decoded plain
		if err := value.Decode(&decoded); err != nil {
			return err
		}
		*s = StopRef(decoded)
		return nil
	default:
		return fmt.Errorf("line %d: stop reference must be a scalar or a mapping", value.Line)
	}
}

type DirectionSpec struct {
	Direction appdata.Direction `yaml:"Direction"`
	// Label is the display headsign; empty means derive it from the feed
	Label string    `yaml:"Label"`
	Stops []StopRef `yaml:"Stops" validate:"dive"`
}

func (d DirectionSpec) IsEmpty() bool {
	return len(d.Stops) == 0
}

func (d DirectionSpec) StopIDs() []string {
	ids := make([]string, len(d.Stops))
	for i, stop := range d.Stops {
		ids[i] = stop.ID
	}

	return ids
}

// PreferredCount is the number of non-ambiguous stops in the reference.
func (d DirectionSpec) PreferredCount() int {
	count := 0
	for _, stop := range d.Stops {
		if !stop.Ambiguous {
			count++
		}
	}

	return count
}

type RouteSpec struct {
	RouteID uint64 `yaml:"-"`
	Route   string `yaml:"Route" validate:"required"`

	DirectionA DirectionSpec `yaml:"DirectionA"`
	DirectionB DirectionSpec `yaml:"DirectionB"`
}

func (r RouteSpec) Direction(side Side) DirectionSpec {
	if side == SideA {
		return r.DirectionA
	}

	return r.DirectionB
}
