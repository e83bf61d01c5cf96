package gtfs

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFeed(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buffer bytes.Buffer
	archive := zip.NewWriter(&buffer)

	for name, content := range files {
		file, err := archive.Create(name)
		require.NoError(t, err)
		_, err = file.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, archive.Close())

	return buffer.Bytes()
}

var testFeed = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"OT,Oakville Transit,https://www.oakville.ca,America/Toronto\n",
	"routes.txt": "route_id,route_short_name,route_long_name,route_color\n" +
		"1,1,TRAFALGAR,DE242C\n" +
		"81N,81N,LOYOLA NORTH,\n",
	"trips.txt": "route_id,service_id,trip_id,trip_headsign,direction_id\n" +
		"1,WK,t1,Oakville GO,0\n" +
		"81N,WK,t2,Bronte and Richview,\n" +
		"1,SA,t3,Oakville GO,1\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"t1,07:05:00,07:05:00,B,2\n" +
		"t1,07:00:00,07:00:00,A,1\n" +
		"t1,07:10:00,07:10:00,C,3\n" +
		"t2,25:01:00,25:01:00,C,1\n" +
		"t3,09:00:00,09:00:00,A,1\n" +
		"t9,09:00:00,09:00:00,A,1\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"WK,1,1,1,1,1,0,0,20261001,20261231\n" +
		"SA,0,0,0,0,0,1,0,20200101,20201231\n",
	"calendar_dates.txt": "service_id,date,exception_type\n" +
		"WK,20261021,2\n" +
		"HOL,20261024,1\n" +
		"HOL,20270101,1\n",
	"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n",
}

func parseTestFeed(t *testing.T) *Schedule {
	t.Helper()

	schedule := &Schedule{}
	require.NoError(t, schedule.ParseFile(bytes.NewReader(buildFeed(t, testFeed))))

	return schedule
}

func TestParseFile(t *testing.T) {
	schedule := parseTestFeed(t)

	assert.Len(t, schedule.Agencies, 1)
	assert.Len(t, schedule.Routes, 2)
	assert.Len(t, schedule.Trips, 3)
	assert.Len(t, schedule.StopTimes, 6)
	assert.Len(t, schedule.Calendars, 2)
	assert.Len(t, schedule.CalendarDates, 3)

	assert.Equal(t, "81N", schedule.Routes[1].ShortName)
	assert.Equal(t, "", schedule.Routes[1].Colour)
	assert.Equal(t, "Bronte and Richview", schedule.Trips[1].Headsign)
}

func TestParseFileNotZip(t *testing.T) {
	schedule := &Schedule{}
	assert.Error(t, schedule.ParseFile(bytes.NewReader([]byte("not a zip"))))
}

func TestRawTrips(t *testing.T) {
	rawTrips := parseTestFeed(t).RawTrips()

	require.Len(t, rawTrips, 3)

	assert.Equal(t, "t1", rawTrips[0].TripID)
	assert.Equal(t, []string{"A", "B", "C"}, rawTrips[0].StopIDs())
	require.True(t, rawTrips[0].HasDirection())
	assert.Equal(t, 0, *rawTrips[0].DirectionID)

	assert.Equal(t, "t2", rawTrips[1].TripID)
	assert.False(t, rawTrips[1].HasDirection())
	assert.Equal(t, "25:01:00", rawTrips[1].Stops[0].DepartureTime)

	assert.Equal(t, 1, *rawTrips[2].DirectionID)
}

func TestServiceDates(t *testing.T) {
	schedule := parseTestFeed(t)

	serviceDates, err := schedule.ServiceDates(time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC), 6)
	require.NoError(t, err)

	assert.Equal(t, map[string][]int{
		"WK":  {20261019, 20261020, 20261022, 20261023},
		"HOL": {20261024},
	}, serviceDates)
}

func TestServiceDatesInvalidCalendar(t *testing.T) {
	schedule := &Schedule{
		Calendars: []Calendar{{ServiceID: "WK", Monday: 1, Start: "2026-10-01", End: "20261231"}},
	}

	_, err := schedule.ServiceDates(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), 6)
	assert.Error(t, err)
}

func TestKeepServices(t *testing.T) {
	schedule := parseTestFeed(t)

	schedule.KeepServices(map[string][]int{"WK": {20261019}})

	require.Len(t, schedule.Trips, 2)
	assert.Equal(t, "t1", schedule.Trips[0].ID)
	assert.Equal(t, "t2", schedule.Trips[1].ID)
	assert.Len(t, schedule.StopTimes, 4)
	assert.Len(t, schedule.Calendars, 1)
	assert.Len(t, schedule.CalendarDates, 1)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		value    string
		expected int
		hasError bool
	}{
		{value: "07:05:00", expected: 70500},
		{value: "7:05:09", expected: 70509},
		{value: "25:01:00", expected: 250100},
		{value: " 00:00:00 ", expected: 0},
		{value: "07:05", hasError: true},
		{value: "07:65:00", hasError: true},
		{value: "aa:00:00", hasError: true},
		{value: "", hasError: true},
	}

	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			value, err := ParseTime(test.value)

			if test.hasError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expected, value)
		})
	}
}
