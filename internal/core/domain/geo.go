package domain

import "fmt"

// Grid constants for the UTM system.
const (
	MinZone = 1
	MaxZone = 60

	// FalseNorthingSouth is the offset added to southern-hemisphere northings.
	FalseNorthingSouth = 10_000_000.0
)

// GeoPoint represents a geographic coordinate (WGS 84) in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// UTMCoord is a projected position on a zone's grid, in meters.
type UTMCoord struct {
	Zone     int     `json:"zone"`
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// ValidZone reports whether z is a UTM zone number.
func ValidZone(z int) bool {
	return z >= MinZone && z <= MaxZone
}
