package routespec

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"
)

// Table holds the RouteSpecs of one feed release. It is built once at startup
// and only read afterwards.
type Table struct {
	release string
	specs   map[uint64]RouteSpec
}

func NewTable(release string, specs []RouteSpec) (*Table, error) {
	table := &Table{
		release: release,
		specs:   make(map[uint64]RouteSpec, len(specs)),
	}

	for _, spec := range specs {
		routeID, err := ParseRouteID(spec.Route)
		if err != nil {
			return nil, err
		}
		spec.RouteID = routeID

		if _, exists := table.specs[routeID]; exists {
			return nil, &ConfigurationError{Route: spec.Route, Reason: "declared more than once"}
		}
		if spec.DirectionA.IsEmpty() && spec.DirectionB.IsEmpty() {
			return nil, &ConfigurationError{Route: spec.Route, Reason: "both directions have an empty reference"}
		}
		if spec.DirectionA.Direction == spec.DirectionB.Direction {
			return nil, &ConfigurationError{Route: spec.Route, Reason: fmt.Sprintf("both directions use %s", spec.DirectionA.Direction)}
		}

		spec.DirectionA.Stops = slices.Clone(spec.DirectionA.Stops)
		spec.DirectionB.Stops = slices.Clone(spec.DirectionB.Stops)

		table.specs[routeID] = spec
	}

	return table, nil
}

// Lookup returns the RouteSpec for a route. The returned value shares its stop
// slices with the table and must not be modified.
func (t *Table) Lookup(routeID uint64) (RouteSpec, bool) {
	spec, exists := t.specs[routeID]

	return spec, exists
}

func (t *Table) Release() string {
	return t.release
}

func (t *Table) Len() int {
	return len(t.specs)
}

func (t *Table) RouteIDs() []uint64 {
	routeIDs := maps.Keys(t.specs)
	slices.Sort(routeIDs)

	return routeIDs
}
