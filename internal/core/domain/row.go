package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Column names of the input and output files.
const (
	ColZone      = "Zone"
	ColEasting   = "Easting"
	ColNorthing  = "Northing"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
)

// RequiredColumns must be present in the input header.
var RequiredColumns = []string{ColZone, ColEasting, ColNorthing}

// OutputColumns is the fixed field order of the output file.
var OutputColumns = []string{ColZone, ColEasting, ColNorthing, ColLatitude, ColLongitude}

// Row is one record of the dataset. Zone, Easting and Northing hold the input
// text untouched so it can be written back byte for byte.
type Row struct {
	Line      int
	Zone      string
	Easting   string
	Northing  string
	Latitude  float64
	Longitude float64
}

// Coord parses the grid fields. Surrounding whitespace is ignored.
func (r Row) Coord() (UTMCoord, error) {
	zone, err := strconv.Atoi(strings.TrimSpace(r.Zone))
	if err != nil {
		return UTMCoord{}, r.malformed(ColZone, r.Zone)
	}
	easting, err := strconv.ParseFloat(strings.TrimSpace(r.Easting), 64)
	if err != nil {
		return UTMCoord{}, r.malformed(ColEasting, r.Easting)
	}
	northing, err := strconv.ParseFloat(strings.TrimSpace(r.Northing), 64)
	if err != nil {
		return UTMCoord{}, r.malformed(ColNorthing, r.Northing)
	}
	return UTMCoord{Zone: zone, Easting: easting, Northing: northing}, nil
}

func (r Row) malformed(col, value string) error {
	return &RowError{
		Line:   r.Line,
		Column: col,
		Err:    fmt.Errorf("%w: %q is not a number", ErrMalformedRow, value),
	}
}

// Record renders the row in OutputColumns order.
func (r Row) Record() []string {
	return []string{
		r.Zone,
		r.Easting,
		r.Northing,
		FormatDegrees(r.Latitude),
		FormatDegrees(r.Longitude),
	}
}

// FormatDegrees uses the shortest representation that parses back to v.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
