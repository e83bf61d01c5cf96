package splitter

import (
	"fmt"

	"github.com/travigo/agencyfeed/pkg/routespec"
)

// ClassifyStops picks the direction of spec whose reference is a subsequence
// of stopIDs. When both match, the reference with more preferred stops wins.
func ClassifyStops(spec routespec.RouteSpec, stopIDs []string) (routespec.Side, error) {
	matchA := matches(spec.DirectionA, stopIDs)
	matchB := matches(spec.DirectionB, stopIDs)

	switch {
	case matchA && matchB:
		preferredA := spec.DirectionA.PreferredCount()
		preferredB := spec.DirectionB.PreferredCount()

		if preferredA == preferredB {
			return routespec.SideA, &ClassificationError{
				Route:  spec.Route,
				Reason: fmt.Sprintf("ambiguous, both directions match with %d preferred stops", preferredA),
			}
		}
		if preferredA > preferredB {
			return routespec.SideA, nil
		}

		return routespec.SideB, nil
	case matchA:
		return routespec.SideA, nil
	case matchB:
		return routespec.SideB, nil
	}

	return routespec.SideA, &ClassificationError{
		Route:  spec.Route,
		Reason: "no direction reference matches the trip stops",
	}
}

func matches(direction routespec.DirectionSpec, stopIDs []string) bool {
	if direction.IsEmpty() {
		return false
	}

	return routespec.IsSubsequence(direction.StopIDs(), stopIDs)
}
