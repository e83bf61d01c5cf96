package appdata

type Agency struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Release string `json:"release"`
}

// Dataset is everything produced from one feed load.
type Dataset struct {
	Agency Agency `json:"agency"`

	Routes       []*Route       `json:"routes"`
	Trips        []*Trip        `json:"trips"`
	TripStops    []*TripStop    `json:"trip_stops"`
	Stops        []*Stop        `json:"stops"`
	ServiceDates []*ServiceDate `json:"service_dates"`
	Schedules    []*Schedule    `json:"schedules,omitempty"`
}

func (d *Dataset) IsEmpty() bool {
	return len(d.Routes) == 0 && len(d.Trips) == 0
}

// SchedulesByStop groups departures per stop, keeping their order.
func (d *Dataset) SchedulesByStop() map[int][]*Schedule {
	byStop := map[int][]*Schedule{}

	for _, schedule := range d.Schedules {
		byStop[schedule.StopID] = append(byStop[schedule.StopID], schedule)
	}

	return byStop
}
