package gtfs

import (
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// RawTrip is a trip as the feed describes it, with its stop times in
// stop_sequence order.
type RawTrip struct {
	TripID    string
	RouteID   string
	ServiceID string
	Headsign  string
	// DirectionID is nil when the feed leaves direction_id empty
	DirectionID *int

	Stops []RawTripStop
}

type RawTripStop struct {
	StopID        string
	Sequence      int
	ArrivalTime   string
	DepartureTime string
}

func (t *RawTrip) StopIDs() []string {
	stopIDs := make([]string, len(t.Stops))
	for i, stop := range t.Stops {
		stopIDs[i] = stop.StopID
	}

	return stopIDs
}

func (t *RawTrip) HasDirection() bool {
	return t.DirectionID != nil
}

// RawTrips joins trips.txt and stop_times.txt. Trips keep their file order;
// stop times referencing unknown trips are ignored. Route ids are trimmed.
func (gtfs *Schedule) RawTrips() []*RawTrip {
	rawTrips := make([]*RawTrip, 0, len(gtfs.Trips))
	tripMap := make(map[string]*RawTrip, len(gtfs.Trips))

	for _, trip := range gtfs.Trips {
		rawTrip := &RawTrip{
			TripID:    trip.ID,
			RouteID:   strings.TrimSpace(trip.RouteID),
			ServiceID: trip.ServiceID,
			Headsign:  trip.Headsign,
		}

		if directionID := strings.TrimSpace(trip.DirectionID); directionID != "" {
			if value, err := strconv.Atoi(directionID); err == nil {
				rawTrip.DirectionID = &value
			} else {
				log.Warn().Str("trip", trip.ID).Str("direction", trip.DirectionID).Msg("Ignoring invalid direction_id")
			}
		}

		rawTrips = append(rawTrips, rawTrip)
		tripMap[trip.ID] = rawTrip
	}

	for _, stopTime := range gtfs.StopTimes {
		rawTrip, exists := tripMap[stopTime.TripID]
		if !exists {
			log.Debug().Str("trip", stopTime.TripID).Msg("Stop time for unknown trip")
			continue
		}

		rawTrip.Stops = append(rawTrip.Stops, RawTripStop{
			StopID:        stopTime.StopID,
			Sequence:      stopTime.StopSequence,
			ArrivalTime:   stopTime.ArrivalTime,
			DepartureTime: stopTime.DepartureTime,
		})
	}

	for _, rawTrip := range rawTrips {
		slices.SortStableFunc(rawTrip.Stops, func(a, b RawTripStop) int {
			return a.Sequence - b.Sequence
		})
	}

	return rawTrips
}
