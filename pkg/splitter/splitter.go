package splitter

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"github.com/travigo/agencyfeed/pkg/routespec"
)

// ClassifiedTrip is a raw trip tagged with one direction of its RouteSpec.
// It holds its own copy of the raw trip.
type ClassifiedTrip struct {
	gtfs.RawTrip

	Side      routespec.Side
	Direction appdata.Direction
	Headsign  string
}

type Splitter struct {
	table         *routespec.Table
	cleanHeadsign func(string) string
}

// New checks that every non-empty reference of the table classifies as its
// own direction before any trip is looked at.
func New(table *routespec.Table, cleanHeadsign func(string) string) (*Splitter, error) {
	if cleanHeadsign == nil {
		cleanHeadsign = func(headsign string) string { return headsign }
	}

	for _, routeID := range table.RouteIDs() {
		spec, _ := table.Lookup(routeID)

		for _, side := range []routespec.Side{routespec.SideA, routespec.SideB} {
			direction := spec.Direction(side)
			if direction.IsEmpty() {
				continue
			}

			classified, err := ClassifyStops(spec, direction.StopIDs())
			if err != nil || classified != side {
				return nil, &routespec.ConfigurationError{
					Route:  spec.Route,
					Reason: fmt.Sprintf("direction %s reference does not classify as itself", side),
				}
			}
		}
	}

	return &Splitter{
		table:         table,
		cleanHeadsign: cleanHeadsign,
	}, nil
}

// Classify tags one raw trip against a RouteSpec.
func Classify(spec routespec.RouteSpec, trip *gtfs.RawTrip) (routespec.Side, error) {
	side, err := ClassifyStops(spec, trip.StopIDs())
	if err != nil {
		var classificationError *ClassificationError
		if errors.As(err, &classificationError) {
			classificationError.TripID = trip.TripID
		}

		return side, err
	}

	return side, nil
}

// Split classifies a trip of a RouteSpec route. The boolean is false when the
// route has no RouteSpec and the trip needs the fallback path.
func (s *Splitter) Split(trip *gtfs.RawTrip) (*ClassifiedTrip, bool, error) {
	routeID, err := routespec.ParseRouteID(trip.RouteID)
	if err != nil {
		return nil, false, err
	}

	spec, exists := s.table.Lookup(routeID)
	if !exists {
		return nil, false, nil
	}

	side, err := Classify(spec, trip)
	if err != nil {
		return nil, true, err
	}

	direction := spec.Direction(side)

	classified := &ClassifiedTrip{
		Side:      side,
		Direction: direction.Direction,
		Headsign:  s.headsign(direction, trip),
	}
	if err := copier.CopyWithOption(&classified.RawTrip, trip, copier.Option{DeepCopy: true}); err != nil {
		return nil, true, err
	}

	log.Debug().
		Str("route", spec.Route).
		Str("trip", trip.TripID).
		Str("direction", direction.Direction.String()).
		Msg("Classified trip")

	return classified, true, nil
}

func (s *Splitter) headsign(direction routespec.DirectionSpec, trip *gtfs.RawTrip) string {
	if direction.Label != "" {
		return direction.Label
	}

	if headsign := s.cleanHeadsign(trip.Headsign); headsign != "" {
		return headsign
	}

	return direction.Direction.DisplayName()
}
