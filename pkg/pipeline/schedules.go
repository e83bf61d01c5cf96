package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"golang.org/x/exp/maps"
)

type scheduleKey struct {
	serviceID string
	tripID    uint64
	stopID    int
	departure int
}

// scheduleRecords lists each departure once, grouped by stop and sorted by
// service then departure time. Stop times without any time are skipped.
func (s *state) scheduleRecords() ([]*appdata.Schedule, error) {
	seen := map[scheduleKey]bool{}
	var schedules []*appdata.Schedule

	for _, trip := range s.sortedTrips() {
		for _, rawTrip := range trip.rawTrips {
			for _, rawStop := range rawTrip.Stops {
				value := rawStop.DepartureTime
				if strings.TrimSpace(value) == "" {
					value = rawStop.ArrivalTime
				}
				if strings.TrimSpace(value) == "" {
					continue
				}

				departure, err := gtfs.ParseTime(value)
				if err != nil {
					return nil, fmt.Errorf("trip %s: %w", rawTrip.TripID, err)
				}

				stop, exists := s.stops[rawStop.StopID]
				if !exists {
					return nil, fmt.Errorf("trip %s: stop %s has no record", rawTrip.TripID, rawStop.StopID)
				}

				key := scheduleKey{
					serviceID: rawTrip.ServiceID,
					tripID:    trip.trip.ID,
					stopID:    stop.ID,
					departure: departure,
				}
				if seen[key] {
					continue
				}
				seen[key] = true

				schedules = append(schedules, &appdata.Schedule{
					ServiceID: rawTrip.ServiceID,
					TripID:    trip.trip.ID,
					StopID:    stop.ID,
					Departure: departure,
					Headsign:  trip.trip.HeadsignValue,
				})
			}
		}
	}

	slices.SortFunc(schedules, func(a, b *appdata.Schedule) int {
		return cmp.Or(
			cmp.Compare(a.StopID, b.StopID),
			strings.Compare(a.ServiceID, b.ServiceID),
			cmp.Compare(a.Departure, b.Departure),
			cmp.Compare(a.TripID, b.TripID),
		)
	})

	return schedules, nil
}

// serviceDateRecords lists the dates of every service a kept trip uses.
func (s *state) serviceDateRecords() []*appdata.ServiceDate {
	used := map[string]bool{}
	for _, trip := range s.trips {
		for _, rawTrip := range trip.rawTrips {
			used[rawTrip.ServiceID] = true
		}
	}

	serviceIDs := maps.Keys(used)
	slices.Sort(serviceIDs)

	var serviceDates []*appdata.ServiceDate
	for _, serviceID := range serviceIDs {
		for _, date := range s.serviceDates[serviceID] {
			serviceDates = append(serviceDates, &appdata.ServiceDate{
				ServiceID: serviceID,
				Date:      date,
			})
		}
	}

	return serviceDates
}
