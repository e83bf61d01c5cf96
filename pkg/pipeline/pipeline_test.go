package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/agencyfeed/pkg/agency"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"github.com/travigo/agencyfeed/pkg/splitter"
	"github.com/travigo/agencyfeed/pkg/transforms"
)

const testRoutespecs = `Route: "1"
DirectionA:
  Direction: NORTH
  Stops: ["1212", "1054", "1293"]
DirectionB:
  Direction: SOUTH
  Label: Downtown
  Stops: ["1293", "1067", "1212"]
`

const testHeadsigns = `FallbackRoutes: ["54"]
Overrides:
  - Route: "81N"
    When: 'Headsign == "Bronte and Richview"'
    Direction: 0
Merges:
  - Route: "54"
    Headsigns: ["Sheridan College", "Glen Abbey"]
    Into: "Sheridan College"
`

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()

	require.NoError(t, transforms.SetupClient("../../data"))

	table, err := routespec.DecodeRelease(strings.NewReader(testRoutespecs), "test")
	require.NoError(t, err)

	rules, err := agency.DecodeHeadsignRules(strings.NewReader(testHeadsigns))
	require.NoError(t, err)

	return &Pipeline{
		Config: &agency.Config{
			Name:                "Oakville Transit",
			Color:               "DCA122",
			StopIDSource:        agency.StopIDSourceCode,
			DefaultRelease:      "test",
			ServiceWindowDays:   6,
			RoutesWithoutColour: []string{"54"},
		},
		Table: table,
		Rules: rules,
		Date:  time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
	}
}

func stopTimes(tripID string, start int, stopIDs ...string) []gtfs.StopTime {
	var times []gtfs.StopTime
	for i, stopID := range stopIDs {
		value := fmt.Sprintf("%02d:%02d:00", start, i*5)

		times = append(times, gtfs.StopTime{
			TripID:        tripID,
			ArrivalTime:   value,
			DepartureTime: value,
			StopID:        stopID,
			StopSequence:  i + 1,
		})
	}

	return times
}

func testSchedule() *gtfs.Schedule {
	schedule := &gtfs.Schedule{
		Routes: []gtfs.Route{
			{ID: "1", ShortName: "1", LongName: "TRAFALGAR", Colour: "de242c"},
			{ID: "54", ShortName: "54", LongName: "SHERIDAN", Colour: ""},
			{ID: "81N", ShortName: "81N", LongName: "LOYOLA NORTH", Colour: "FFFFFF"},
			{ID: "2", ShortName: "2", LongName: "OLD ROUTE", Colour: ""},
		},
		Trips: []gtfs.Trip{
			{RouteID: "1", ServiceID: "WK", ID: "n1", DirectionID: "0"},
			{RouteID: "1", ServiceID: "WK", ID: "n2", DirectionID: "0"},
			{RouteID: "1", ServiceID: "WK", ID: "s1", Headsign: "Oakville GO", DirectionID: "1"},
			{RouteID: "54", ServiceID: "WK", ID: "t54b", Headsign: "SHERIDAN COLLEGE VIA GLEN ABBEY", DirectionID: "1"},
			{RouteID: "54", ServiceID: "WK", ID: "t54a", Headsign: "Sheridan College", DirectionID: "1"},
			{RouteID: "81N", ServiceID: "WK", ID: "t81", Headsign: "Bronte and Richview"},
			{RouteID: "2", ServiceID: "SA", ID: "old", Headsign: "Old"},
		},
		Calendars: []gtfs.Calendar{
			{ServiceID: "WK", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1, Start: "20261001", End: "20261231"},
			{ServiceID: "SA", Saturday: 1, Start: "20200101", End: "20201231"},
		},
	}

	for _, code := range []string{"1212", "1213", "1054", "1293", "1665", "1067", "501", "502", "600", "999"} {
		schedule.Stops = append(schedule.Stops, gtfs.Stop{ID: code, Code: code, Name: "STOP " + code, Latitude: 43.4, Longitude: -79.7})
	}
	schedule.Stops = append(schedule.Stops, gtfs.Stop{ID: "500", Code: "500", Name: "123 Main St and Elm Ave"})

	schedule.StopTimes = append(schedule.StopTimes, stopTimes("n1", 7, "1212", "1213", "1054", "1293", "1665")...)
	schedule.StopTimes = append(schedule.StopTimes, stopTimes("n2", 8, "1212", "500", "1054", "1293")...)
	schedule.StopTimes = append(schedule.StopTimes, stopTimes("s1", 9, "1293", "1067", "1212")...)
	schedule.StopTimes = append(schedule.StopTimes, stopTimes("t54b", 10, "600", "502", "501")...)
	schedule.StopTimes = append(schedule.StopTimes, stopTimes("t54a", 11, "502", "501")...)
	schedule.StopTimes = append(schedule.StopTimes, stopTimes("t81", 25, "501", "502")...)
	schedule.StopTimes = append(schedule.StopTimes, stopTimes("old", 12, "999")...)

	return schedule
}

func stopIDsOf(tripStops []*appdata.TripStop, tripID uint64) []int {
	var stopIDs []int
	for _, tripStop := range tripStops {
		if tripStop.TripID == tripID {
			stopIDs = append(stopIDs, tripStop.StopID)
		}
	}

	return stopIDs
}

func TestRun(t *testing.T) {
	dataset, err := testPipeline(t).Run(testSchedule())
	require.NoError(t, err)

	assert.Equal(t, appdata.Agency{Name: "Oakville Transit", Color: "DCA122", Release: "test"}, dataset.Agency)

	require.Len(t, dataset.Routes, 3)
	assert.Equal(t, uint64(1), dataset.Routes[0].ID)
	assert.Equal(t, "DE242C", dataset.Routes[0].Color)
	assert.Equal(t, uint64(54), dataset.Routes[1].ID)
	assert.Equal(t, "", dataset.Routes[1].Color)
	assert.Equal(t, uint64(14081), dataset.Routes[2].ID)
	assert.Equal(t, "00529B", dataset.Routes[2].Color)
	assert.Equal(t, "81N", dataset.Routes[2].ShortName)

	require.Len(t, dataset.Trips, 4)
	assert.Equal(t, &appdata.Trip{ID: 103, HeadsignType: appdata.HeadsignTypeDirection, HeadsignValue: "North", RouteID: 1, HeadsignID: appdata.DirectionNorth}, dataset.Trips[0])
	assert.Equal(t, &appdata.Trip{ID: 104, HeadsignType: appdata.HeadsignTypeString, HeadsignValue: "Downtown", RouteID: 1, HeadsignID: appdata.DirectionSouth}, dataset.Trips[1])
	assert.Equal(t, &appdata.Trip{ID: 5401, HeadsignType: appdata.HeadsignTypeString, HeadsignValue: "Sheridan College", RouteID: 54, HeadsignID: 1}, dataset.Trips[2])
	assert.Equal(t, &appdata.Trip{ID: 1408100, HeadsignType: appdata.HeadsignTypeString, HeadsignValue: "Bronte & Richview", RouteID: 14081, HeadsignID: 0}, dataset.Trips[3])

	assert.Equal(t, []int{1212, 1213, 500, 1054, 1293, 1665}, stopIDsOf(dataset.TripStops, 103))
	assert.Equal(t, []int{1293, 1067, 1212}, stopIDsOf(dataset.TripStops, 104))
	assert.Equal(t, []int{600, 502, 501}, stopIDsOf(dataset.TripStops, 5401))
	assert.Equal(t, []int{501, 502}, stopIDsOf(dataset.TripStops, 1408100))

	for _, tripStop := range dataset.TripStops {
		last := tripStop.StopID == 1665 || (tripStop.TripID == 104 && tripStop.StopID == 1212) ||
			(tripStop.TripID == 5401 && tripStop.StopID == 501) || (tripStop.TripID == 1408100 && tripStop.StopID == 502)
		assert.Equal(t, last, tripStop.DescentOnly, "trip %d stop %d", tripStop.TripID, tripStop.StopID)
	}
	assert.Equal(t, 1, dataset.TripStops[0].StopSequence)
	assert.Equal(t, 6, dataset.TripStops[5].StopSequence)

	require.Len(t, dataset.Stops, 10)
	assert.Equal(t, 500, dataset.Stops[0].ID)
	assert.Equal(t, "123 Main St & Elm Ave", dataset.Stops[0].Name)
	assert.Equal(t, 1665, dataset.Stops[9].ID)

	var dates []int
	for _, serviceDate := range dataset.ServiceDates {
		assert.Equal(t, "WK", serviceDate.ServiceID)
		dates = append(dates, serviceDate.Date)
	}
	assert.Equal(t, []int{20261019, 20261020, 20261021, 20261022, 20261023}, dates)

	byStop := dataset.SchedulesByStop()
	require.Len(t, byStop[1212], 3)
	assert.Equal(t, &appdata.Schedule{ServiceID: "WK", TripID: 103, StopID: 1212, Departure: 70000, Headsign: "North"}, byStop[1212][0])
	assert.Equal(t, 80000, byStop[1212][1].Departure)
	assert.Equal(t, &appdata.Schedule{ServiceID: "WK", TripID: 104, StopID: 1212, Departure: 91000, Headsign: "Downtown"}, byStop[1212][2])
	require.Len(t, byStop[502], 3)
	assert.Equal(t, []int{100500, 110000, 250500}, []int{byStop[502][0].Departure, byStop[502][1].Departure, byStop[502][2].Departure})
	assert.Empty(t, byStop[999])
}

func TestRunPaddedRouteIDs(t *testing.T) {
	schedule := testSchedule()
	schedule.Routes[0].ID = " 1"
	schedule.Routes[2].ID = "81N "
	for i := range schedule.Trips {
		schedule.Trips[i].RouteID = " " + schedule.Trips[i].RouteID + " "
	}
	// only the 81N override moves this trip to direction 0
	schedule.Trips[5].DirectionID = "1"

	dataset, err := testPipeline(t).Run(schedule)
	require.NoError(t, err)

	require.Len(t, dataset.Routes, 3)
	assert.Equal(t, "1", dataset.Routes[0].Code)
	assert.Equal(t, "81N", dataset.Routes[2].Code)

	require.Len(t, dataset.Trips, 4)
	assert.Equal(t, uint64(1408100), dataset.Trips[3].ID)
}

func TestRunNoServiceInWindow(t *testing.T) {
	pipeline := testPipeline(t)
	pipeline.Date = time.Date(2030, time.March, 4, 0, 0, 0, 0, time.UTC)

	dataset, err := pipeline.Run(testSchedule())
	require.NoError(t, err)

	assert.True(t, dataset.IsEmpty())
	assert.Equal(t, "Oakville Transit", dataset.Agency.Name)
}

func TestRunErrors(t *testing.T) {
	t.Run("missing colour", func(t *testing.T) {
		schedule := testSchedule()
		schedule.Routes[1].ID = "88"
		schedule.Routes[1].ShortName = "88"
		for i := range schedule.Trips {
			if schedule.Trips[i].RouteID == "54" {
				schedule.Trips[i].RouteID = "88"
			}
		}

		_, err := testPipeline(t).Run(schedule)

		var configurationError *routespec.ConfigurationError
		require.True(t, errors.As(err, &configurationError))
		assert.Equal(t, "88", configurationError.Route)
	})

	t.Run("unclassifiable trip", func(t *testing.T) {
		schedule := testSchedule()
		schedule.Trips = append(schedule.Trips, gtfs.Trip{RouteID: "1", ServiceID: "WK", ID: "x1"})
		schedule.StopTimes = append(schedule.StopTimes, stopTimes("x1", 13, "1665", "1213")...)

		_, err := testPipeline(t).Run(schedule)

		var classificationError *splitter.ClassificationError
		require.True(t, errors.As(err, &classificationError))
		assert.Equal(t, "x1", classificationError.TripID)
	})

	t.Run("headsigns without merge rule", func(t *testing.T) {
		schedule := testSchedule()
		schedule.Trips[4].Headsign = "Oakville GO"

		_, err := testPipeline(t).Run(schedule)

		var mergeError *agency.MergeError
		require.True(t, errors.As(err, &mergeError))
		assert.Equal(t, "54", mergeError.Route)
	})

	t.Run("stop code not numeric", func(t *testing.T) {
		schedule := testSchedule()
		for i := range schedule.Stops {
			if schedule.Stops[i].ID == "600" {
				schedule.Stops[i].Code = "WB600"
			}
		}

		_, err := testPipeline(t).Run(schedule)
		assert.ErrorContains(t, err, "not numeric")
	})
}

func TestRunStopIDSource(t *testing.T) {
	schedule := testSchedule()
	for i := range schedule.Stops {
		schedule.Stops[i].Code = "9" + schedule.Stops[i].Code
	}

	pipeline := testPipeline(t)
	pipeline.Config.StopIDSource = agency.StopIDSourceID

	dataset, err := pipeline.Run(schedule)
	require.NoError(t, err)
	assert.Equal(t, 500, dataset.Stops[0].ID)
	assert.Equal(t, "9500", dataset.Stops[0].Code)
}
