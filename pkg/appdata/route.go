package appdata

type Route struct {
	ID        uint64 `csv:"id" json:"id"`
	ShortName string `csv:"short_name" json:"short_name"`
	LongName  string `csv:"long_name" json:"long_name"`
	Color     string `csv:"color" json:"color"`

	// Code is the agency route code the id was derived from, eg. "14A"
	Code string `csv:"-" json:"code" bson:"code"`
}
