// Package projection converts between UTM grid coordinates and WGS84
// latitude/longitude.
package projection

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"

	"github.com/samirrijal/utm2latlng/internal/core/domain"
)

// UTM is the WGS84 Universal Transverse Mercator projection. It implements
// ports.Converter. The underlying converter is built once and shared by
// every call.
type UTM struct {
	inverse func(coordconv.UTMCoord) (s2.LatLng, error)
	forward func(s2.LatLng, int) (coordconv.UTMCoord, error)
}

// NewUTM returns a projection on the WGS84 ellipsoid and datum.
func NewUTM() *UTM {
	return &UTM{
		inverse: coordconv.DefaultUTMConverter.ConvertToGeodetic,
		forward: coordconv.DefaultUTMConverter.ConvertFromGeodetic,
	}
}

// Convert returns the latitude and longitude, in decimal degrees, of a point
// on the grid of the given zone.
//
// When northern is false the northing is taken as 10,000,000 - northing and
// projected on the northern grid.
func (u *UTM) Convert(zone int, easting, northing float64, northern bool) (float64, float64, error) {
	if !domain.ValidZone(zone) {
		return 0, 0, fmt.Errorf("%w: %d (want %d-%d)", domain.ErrInvalidZone, zone, domain.MinZone, domain.MaxZone)
	}
	if !finite(easting) || !finite(northing) {
		return 0, 0, fmt.Errorf("%w: easting=%v northing=%v", domain.ErrNonFinite, easting, northing)
	}

	if !northern {
		northing = domain.FalseNorthingSouth - northing
	}

	ll, err := u.inverse(coordconv.UTMCoord{
		Zone:       zone,
		Hemisphere: coordconv.HemisphereNorth,
		Easting:    easting,
		Northing:   northing,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: zone %d easting %v northing %v: %v", domain.ErrProjection, zone, easting, northing, err)
	}

	return ll.Lat.Degrees(), ll.Lng.Degrees(), nil
}

// Point is Convert for a parsed coordinate.
func (u *UTM) Point(c domain.UTMCoord, northern bool) (domain.GeoPoint, error) {
	lat, lon, err := u.Convert(c.Zone, c.Easting, c.Northing, northern)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

// Forward projects a geodetic point onto the grid of zone. The zone may be
// the point's own zone or a neighbour of it.
func (u *UTM) Forward(lat, lon float64, zone int) (easting, northing float64, err error) {
	if !domain.ValidZone(zone) {
		return 0, 0, fmt.Errorf("%w: %d (want %d-%d)", domain.ErrInvalidZone, zone, domain.MinZone, domain.MaxZone)
	}
	c, err := u.forward(s2.LatLngFromDegrees(lat, lon), zone)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lat %v lon %v zone %d: %v", domain.ErrProjection, lat, lon, zone, err)
	}
	return c.Easting, c.Northing, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
