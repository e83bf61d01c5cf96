package appdata

type ServiceDate struct {
	ServiceID string `csv:"service_id" json:"service_id"`
	Date      int    `csv:"date" json:"date"`
}

// Schedule is one departure of a trip from a stop. Departure is HHMMSS and may
// exceed 240000 for trips running past midnight.
type Schedule struct {
	ServiceID string `csv:"service_id" json:"service_id"`
	TripID    uint64 `csv:"trip_id" json:"trip_id"`
	StopID    int    `csv:"-" json:"stop_id"`
	Departure int    `csv:"departure" json:"departure"`
	Headsign  string `csv:"headsign" json:"headsign"`
}
