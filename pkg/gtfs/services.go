package gtfs

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/util"
	"golang.org/x/exp/maps"
)

const DateFormat = "20060102"

// ServiceDates expands calendar.txt and calendar_dates.txt into the dates,
// as YYYYMMDD, each service runs on within [from, from+days]. Services that
// never run inside the window are left out.
func (gtfs *Schedule) ServiceDates(from time.Time, days int) (map[string][]int, error) {
	windowStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 0, days)

	running := map[string]map[int]bool{}
	addDate := func(serviceID string, date time.Time) {
		if running[serviceID] == nil {
			running[serviceID] = map[int]bool{}
		}
		running[serviceID][dateInt(date)] = true
	}

	for _, calendar := range gtfs.Calendars {
		start, err := time.Parse(DateFormat, calendar.Start)
		if err != nil {
			return nil, fmt.Errorf("service %s start date: %w", calendar.ServiceID, err)
		}
		end, err := time.Parse(DateFormat, calendar.End)
		if err != nil {
			return nil, fmt.Errorf("service %s end date: %w", calendar.ServiceID, err)
		}

		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}

		for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
			if calendar.RunsOn(date.Weekday()) {
				addDate(calendar.ServiceID, date)
			}
		}
	}

	for _, calendarDate := range gtfs.CalendarDates {
		date, err := time.Parse(DateFormat, calendarDate.Date)
		if err != nil {
			return nil, fmt.Errorf("service %s calendar date: %w", calendarDate.ServiceID, err)
		}
		if date.Before(windowStart) || date.After(windowEnd) {
			continue
		}

		switch calendarDate.ExceptionType {
		case ExceptionTypeAdded:
			addDate(calendarDate.ServiceID, date)
		case ExceptionTypeRemoved:
			delete(running[calendarDate.ServiceID], dateInt(date))
		default:
			log.Warn().Str("service", calendarDate.ServiceID).Int("type", calendarDate.ExceptionType).Msg("Unknown calendar date exception type")
		}
	}

	serviceDates := map[string][]int{}
	for serviceID, dates := range running {
		if len(dates) == 0 {
			continue
		}

		sortedDates := maps.Keys(dates)
		slices.Sort(sortedDates)
		serviceDates[serviceID] = sortedDates
	}

	return serviceDates, nil
}

// KeepServices drops trips, stop times and calendars of every service not in
// keep.
func (gtfs *Schedule) KeepServices(keep map[string][]int) {
	keptTrips := map[string]bool{}

	removedTrips := util.InPlaceFilter(&gtfs.Trips, func(trip Trip) bool {
		_, kept := keep[trip.ServiceID]
		if kept {
			keptTrips[trip.ID] = true
		}
		return kept
	})
	util.InPlaceFilter(&gtfs.StopTimes, func(stopTime StopTime) bool {
		return keptTrips[stopTime.TripID]
	})
	util.InPlaceFilter(&gtfs.Calendars, func(calendar Calendar) bool {
		_, kept := keep[calendar.ServiceID]
		return kept
	})
	util.InPlaceFilter(&gtfs.CalendarDates, func(calendarDate CalendarDate) bool {
		_, kept := keep[calendarDate.ServiceID]
		return kept
	})

	log.Debug().Int("removed", removedTrips).Int("kept", len(gtfs.Trips)).Msg("Dropped trips of services outside the window")
}

func dateInt(date time.Time) int {
	value, _ := strconv.Atoi(date.Format(DateFormat))

	return value
}
