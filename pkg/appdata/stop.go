package appdata

type Stop struct {
	ID        int     `csv:"id" json:"id"`
	Code      string  `csv:"code" json:"code"`
	Name      string  `csv:"name" json:"name"`
	Latitude  float64 `csv:"lat" json:"lat"`
	Longitude float64 `csv:"lng" json:"lng"`

	GTFSID string `csv:"-" json:"gtfs_id" bson:"gtfsid"`
}
