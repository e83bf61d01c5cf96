package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/agency"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/cleanup"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"github.com/travigo/agencyfeed/pkg/tripsort"
	"golang.org/x/exp/maps"
)

// buildStops orders the stops of every output trip and creates the stop
// records they use.
func (p *Pipeline) buildStops(s *state) error {
	s.stops = map[string]*appdata.Stop{}
	s.stopsByGTFS = make(map[string]gtfs.Stop, len(s.schedule.Stops))
	for _, stop := range s.schedule.Stops {
		s.stopsByGTFS[stop.ID] = stop
	}

	for _, trip := range s.sortedTrips() {
		reference := trip.reference
		if len(reference) == 0 {
			reference = longestTrip(trip.rawTrips).StopIDs()
		}

		occurrences, gaps := tripsort.Order(reference, trip.rawTrips)
		for _, gap := range gaps {
			log.Warn().
				Str("route", trip.route.Code).
				Uint64("trip", trip.trip.ID).
				Err(gap).
				Msg("Stops placed at the end of the trip")
		}

		trip.stops = make([]*appdata.TripStop, 0, len(occurrences))
		for i, occurrence := range occurrences {
			stop, err := s.stop(p.Config, occurrence.StopID)
			if err != nil {
				return fmt.Errorf("trip %s: %w", occurrence.TripID, err)
			}

			trip.stops = append(trip.stops, &appdata.TripStop{
				TripID:       trip.trip.ID,
				StopID:       stop.ID,
				StopSequence: i + 1,
			})
		}

		if len(trip.stops) > 0 {
			trip.stops[len(trip.stops)-1].DescentOnly = true
		}
	}

	return nil
}

// longestTrip is the first trip with the most stops.
func longestTrip(trips []*gtfs.RawTrip) *gtfs.RawTrip {
	longest := trips[0]
	for _, trip := range trips[1:] {
		if len(trip.Stops) > len(longest.Stops) {
			longest = trip
		}
	}

	return longest
}

func (s *state) stop(config *agency.Config, gtfsID string) (*appdata.Stop, error) {
	if stop, exists := s.stops[gtfsID]; exists {
		return stop, nil
	}

	gtfsStop, exists := s.stopsByGTFS[gtfsID]
	if !exists {
		return nil, fmt.Errorf("stop %s is not in stops.txt", gtfsID)
	}

	source := strings.TrimSpace(gtfsStop.ID)
	if config.StopIDSource == agency.StopIDSourceCode && strings.TrimSpace(gtfsStop.Code) != "" {
		source = strings.TrimSpace(gtfsStop.Code)
	}

	stopID, err := strconv.Atoi(source)
	if err != nil {
		return nil, fmt.Errorf("stop %s: %s %q is not numeric", gtfsID, config.StopIDSource, source)
	}

	stop := &appdata.Stop{
		ID:        stopID,
		Code:      strings.TrimSpace(gtfsStop.Code),
		Name:      cleanup.StopName(gtfsStop.Name),
		Latitude:  gtfsStop.Latitude,
		Longitude: gtfsStop.Longitude,
		GTFSID:    gtfsID,
	}
	s.stops[gtfsID] = stop

	return stop, nil
}

func (s *state) stopRecords() []*appdata.Stop {
	stops := maps.Values(s.stops)

	slices.SortFunc(stops, func(a, b *appdata.Stop) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), strings.Compare(a.GTFSID, b.GTFSID))
	})

	return stops
}
