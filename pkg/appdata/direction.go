package appdata

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Direction is the headsign id of an output trip. Routes split by stop order
// use the compass values; routes that keep the feed's own direction flag use 0
// and 1 directly.
type Direction int

const (
	DirectionNone  Direction = -1
	DirectionEast  Direction = 1
	DirectionWest  Direction = 2
	DirectionNorth Direction = 3
	DirectionSouth Direction = 4
)

var directionNames = map[Direction]string{
	DirectionEast:  "EAST",
	DirectionWest:  "WEST",
	DirectionNorth: "NORTH",
	DirectionSouth: "SOUTH",
}

func (d Direction) String() string {
	if name, exists := directionNames[d]; exists {
		return name
	}

	return strconv.Itoa(int(d))
}

// DisplayName is the compass name in label case ("North").
func (d Direction) DisplayName() string {
	name, exists := directionNames[d]
	if !exists {
		return ""
	}

	return name[:1] + strings.ToLower(name[1:])
}

func ParseDirection(value string) (Direction, error) {
	value = strings.TrimSpace(value)

	for direction, name := range directionNames {
		if strings.EqualFold(name, value) {
			return direction, nil
		}
	}

	index, err := strconv.Atoi(value)
	if err != nil {
		return DirectionNone, fmt.Errorf("unknown direction %q", value)
	}
	if index < 0 {
		return DirectionNone, fmt.Errorf("negative direction %d", index)
	}

	return Direction(index), nil
}

func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: direction must be a scalar", value.Line)
	}

	direction, err := ParseDirection(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*d = direction

	return nil
}
