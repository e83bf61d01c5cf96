package pipeline

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/agencyfeed/pkg/agency"
	"github.com/travigo/agencyfeed/pkg/appdata"
	"github.com/travigo/agencyfeed/pkg/cleanup"
	"github.com/travigo/agencyfeed/pkg/gtfs"
	"github.com/travigo/agencyfeed/pkg/routespec"
	"github.com/travigo/agencyfeed/pkg/splitter"
)

// Pipeline turns one GTFS feed into an appdata.Dataset using the
// configuration of one release.
type Pipeline struct {
	Config *agency.Config
	Table  *routespec.Table
	Rules  *agency.HeadsignRules

	// Date is the first day of the service window
	Date time.Time
}

// state is what one run carries between its stages.
type state struct {
	schedule     *gtfs.Schedule
	serviceDates map[string][]int

	routes      map[string]*appdata.Route
	trips       map[uint64]*outputTrip
	stops       map[string]*appdata.Stop
	stopsByGTFS map[string]gtfs.Stop
}

func (p *Pipeline) Run(schedule *gtfs.Schedule) (*appdata.Dataset, error) {
	dataset := &appdata.Dataset{
		Agency: appdata.Agency{
			Name:    p.Config.Name,
			Color:   p.Config.Color,
			Release: p.Table.Release(),
		},
	}

	serviceDates, err := schedule.ServiceDates(p.Date, p.Config.ServiceWindowDays)
	if err != nil {
		return nil, err
	}
	if len(serviceDates) == 0 {
		log.Warn().
			Str("date", p.Date.Format(gtfs.DateFormat)).
			Int("days", p.Config.ServiceWindowDays).
			Msg("No service runs in the window, nothing to generate")
		return dataset, nil
	}

	schedule.KeepServices(serviceDates)
	log.Info().Int("services", len(serviceDates)).Int("trips", len(schedule.Trips)).Msg("Filtered services")

	tripSplitter, err := splitter.New(p.Table, cleanup.TripHeadsign)
	if err != nil {
		return nil, err
	}

	s := &state{
		schedule:     schedule,
		serviceDates: serviceDates,
	}

	log.Info().Int("length", len(schedule.Routes)).Msg("Starting Routes")
	if err := p.buildRoutes(s); err != nil {
		return nil, err
	}
	log.Info().Msg("Finished Routes")

	rawTrips := schedule.RawTrips()
	log.Info().Int("length", len(rawTrips)).Msg("Starting Trips")
	if err := p.buildTrips(s, tripSplitter, rawTrips); err != nil {
		return nil, err
	}
	log.Info().Int("trips", len(s.trips)).Msg("Finished Trips")

	log.Info().Int("length", len(schedule.Stops)).Msg("Starting Stops")
	if err := p.buildStops(s); err != nil {
		return nil, err
	}
	log.Info().Int("stops", len(s.stops)).Msg("Finished Stops")

	dataset.Routes = s.routeRecords()
	dataset.Trips = s.tripRecords()
	dataset.TripStops = s.tripStopRecords()
	dataset.Stops = s.stopRecords()
	dataset.ServiceDates = s.serviceDateRecords()

	log.Info().Msg("Starting Schedules")
	dataset.Schedules, err = s.scheduleRecords()
	if err != nil {
		return nil, err
	}
	log.Info().Int("length", len(dataset.Schedules)).Msg("Finished Schedules")

	return dataset, nil
}
