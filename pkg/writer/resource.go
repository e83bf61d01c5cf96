package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"golang.org/x/exp/maps"
)

const (
	RoutesFile       = "gtfs_rts_routes"
	TripsFile        = "gtfs_rts_trips"
	TripStopsFile    = "gtfs_rts_trip_stops"
	StopsFile        = "gtfs_rts_stops"
	ServiceDatesFile = "gtfs_schedule_service_dates"
	StopScheduleFile = "gtfs_schedule_stop_%d"
)

// ResourceWriter writes headerless CSV resource files, one goroutine per
// file.
type ResourceWriter struct {
	Directory string
	Prefix    string

	MaxGoroutines int
}

func (w *ResourceWriter) Write(ctx context.Context, dataset *appdata.Dataset) error {
	if err := os.MkdirAll(w.Directory, 0o755); err != nil {
		return err
	}

	maxGoroutines := w.MaxGoroutines
	if maxGoroutines <= 0 {
		maxGoroutines = 8
	}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(maxGoroutines)

	files := map[string]interface{}{
		RoutesFile:       dataset.Routes,
		TripsFile:        dataset.Trips,
		TripStopsFile:    dataset.TripStops,
		StopsFile:        dataset.Stops,
		ServiceDatesFile: dataset.ServiceDates,
	}
	for stopID, schedules := range dataset.SchedulesByStop() {
		files[fmt.Sprintf(StopScheduleFile, stopID)] = schedules
	}

	for _, name := range maps.Keys(files) {
		records := files[name]

		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return w.writeFile(name, records)
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}

	log.Info().Str("directory", w.Directory).Int("files", len(files)).Msg("Wrote resource files")

	return nil
}

func (w *ResourceWriter) writeFile(name string, records interface{}) error {
	path := filepath.Join(w.Directory, w.Prefix+name)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalWithoutHeaders(records, file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.Debug().Str("file", path).Msg("Wrote resource file")

	return file.Close()
}
