package ports

import "github.com/samirrijal/utm2latlng/internal/core/domain"

// Converter maps a UTM grid position to a geodetic point. When northern is
// false the northing is read on the southern grid.
type Converter interface {
	Point(c domain.UTMCoord, northern bool) (domain.GeoPoint, error)
}

// RowSource yields input rows in file order and returns io.EOF when exhausted.
type RowSource interface {
	Next() (domain.Row, error)
}

// RowSink receives converted rows in order.
type RowSink interface {
	Write(row domain.Row) error
}

// ConversionRecorder observes the progress of a run (metrics, counters).
type ConversionRecorder interface {
	RowRead()
	RowConverted()
	RowFailed(reason string)
}
