package pipeline

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/agency"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"github.com/travigo/agencyfeed/pkg/splitter"
	"golang.org/x/exp/maps"
)

// outputTrip gathers the raw trips that collapse into one route direction.
type outputTrip struct {
	trip  *appdata.Trip
	route *appdata.Route

	rawTrips []*gtfs.RawTrip
	// reference is the RouteSpec stop order, empty for fallback routes
	reference []string

	stops []*appdata.TripStop
}

func (p *Pipeline) rules() *agency.HeadsignRules {
	if p.Rules == nil {
		return &agency.HeadsignRules{}
	}

	return p.Rules
}

func (p *Pipeline) buildTrips(s *state, tripSplitter *splitter.Splitter, rawTrips []*gtfs.RawTrip) error {
	s.trips = map[uint64]*outputTrip{}
	rules := p.rules()

	for _, rawTrip := range rawTrips {
		route, exists := s.routes[rawTrip.RouteID]
		if !exists {
			log.Warn().Str("trip", rawTrip.TripID).Str("route", rawTrip.RouteID).Msg("Trip references an unknown route")
			continue
		}

		var direction appdata.Direction
		var headsign string
		var reference []string
		headsignType := appdata.HeadsignTypeString

		classified, hasSpec, err := tripSplitter.Split(rawTrip)
		if err != nil {
			return err
		}

		if hasSpec {
			spec, _ := p.Table.Lookup(route.ID)

			direction = classified.Direction
			headsign = classified.Headsign
			reference = spec.Direction(classified.Side).StopIDs()
			rawTrip = &classified.RawTrip

			if headsign == direction.DisplayName() {
				headsignType = appdata.HeadsignTypeDirection
			}
		} else {
			resolution, err := rules.Resolve(rawTrip)
			if err != nil {
				return err
			}

			direction = resolution.Direction
			headsign = resolution.Headsign
		}

		tripID := appdata.TripID(route.ID, direction)

		existing, exists := s.trips[tripID]
		if !exists {
			existing = &outputTrip{
				trip: &appdata.Trip{
					ID:            tripID,
					HeadsignType:  headsignType,
					HeadsignValue: headsign,
					RouteID:       route.ID,
					HeadsignID:    direction,
				},
				route:     route,
				reference: reference,
			}
			s.trips[tripID] = existing
		} else if existing.trip.HeadsignValue != headsign {
			merged, err := rules.Merge(route.Code, existing.trip.HeadsignValue, headsign)
			if err != nil {
				return err
			}

			log.Debug().
				Str("route", route.Code).
				Str("current", existing.trip.HeadsignValue).
				Str("other", headsign).
				Str("merged", merged).
				Msg("Merged headsigns")

			existing.trip.HeadsignValue = merged
			existing.trip.HeadsignType = appdata.HeadsignTypeString
		}

		existing.rawTrips = append(existing.rawTrips, rawTrip)
	}

	return nil
}

func (s *state) sortedTrips() []*outputTrip {
	trips := maps.Values(s.trips)

	slices.SortFunc(trips, func(a, b *outputTrip) int {
		return cmp.Compare(a.trip.ID, b.trip.ID)
	})

	return trips
}

func (s *state) tripRecords() []*appdata.Trip {
	var trips []*appdata.Trip
	for _, trip := range s.sortedTrips() {
		trips = append(trips, trip.trip)
	}

	return trips
}

func (s *state) tripStopRecords() []*appdata.TripStop {
	var tripStops []*appdata.TripStop
	for _, trip := range s.sortedTrips() {
		tripStops = append(tripStops, trip.stops...)
	}

	return tripStops
}
