package appdata

//goland:noinspection GoUnusedConst
const (
	HeadsignTypeString    = 0
	HeadsignTypeDirection = 1
)

type Trip struct {
	ID            uint64    `csv:"id" json:"id"`
	HeadsignType  int       `csv:"headsign_type" json:"headsign_type"`
	HeadsignValue string    `csv:"headsign_value" json:"headsign_value"`
	RouteID       uint64    `csv:"route_id" json:"route_id"`
	HeadsignID    Direction `csv:"-" json:"headsign_id"`
}

// TripID builds the output trip id from its route and headsign id.
func TripID(routeID uint64, headsignID Direction) uint64 {
	return routeID*100 + uint64(headsignID)
}

type TripStop struct {
	TripID       uint64 `csv:"trip_id" json:"trip_id"`
	StopID       int    `csv:"stop_id" json:"stop_id"`
	StopSequence int    `csv:"stop_sequence" json:"stop_sequence"`
	DescentOnly  bool   `csv:"descent_only" json:"descent_only"`
}
