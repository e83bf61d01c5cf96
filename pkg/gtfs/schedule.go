package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

type Schedule struct {
	Agencies      []Agency
	Stops         []Stop
	Routes        []Route
	Trips         []Trip
	StopTimes     []StopTime
	Calendars     []Calendar
	CalendarDates []CalendarDate
}

func Open(path string) (*Schedule, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	schedule := &Schedule{}
	if err := schedule.ParseFile(file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return schedule, nil
}

// ParseFile reads a zipped GTFS feed. Files other than the ones the
// pipeline needs are skipped.
func (gtfs *Schedule) ParseFile(reader io.Reader) error {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	fileMap := map[string]interface{}{
		"agency.txt":         &gtfs.Agencies,
		"stops.txt":          &gtfs.Stops,
		"routes.txt":         &gtfs.Routes,
		"trips.txt":          &gtfs.Trips,
		"stop_times.txt":     &gtfs.StopTimes,
		"calendar.txt":       &gtfs.Calendars,
		"calendar_dates.txt": &gtfs.CalendarDates,
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return err
	}

	for _, zipFile := range archive.File {
		fileName := zipFile.Name
		destination, exists := fileMap[fileName]
		if !exists {
			log.Debug().Str("file", fileName).Msg("Skipping gtfs file")
			continue
		}

		log.Info().Str("file", fileName).Msg("Loading file")

		if err := unmarshalZipFile(zipFile, destination); err != nil {
			log.Error().Str("file", fileName).Err(err).Msg("Failed to parse csv file")
			return fmt.Errorf("%s: %w", fileName, err)
		}
	}

	return nil
}

func unmarshalZipFile(zipFile *zip.File, destination interface{}) error {
	fileReader, err := zipFile.Open()
	if err != nil {
		return err
	}
	defer fileReader.Close()

	return gocsv.Unmarshal(fileReader, destination)
}

// ParseTime turns a GTFS "H:MM:SS" time into HHMMSS. Hours past 23 are kept
// for trips running after midnight.
func ParseTime(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid gtfs time %q", value)
	}

	var fields [3]int
	for i, part := range parts {
		number, err := strconv.Atoi(part)
		if err != nil || number < 0 {
			return 0, fmt.Errorf("invalid gtfs time %q", value)
		}
		fields[i] = number
	}

	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("invalid gtfs time %q", value)
	}

	return fields[0]*10000 + fields[1]*100 + fields[2], nil
}
