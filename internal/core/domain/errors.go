package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrInvalidZone   = errors.New("invalid UTM zone")
	ErrNonFinite     = errors.New("coordinate is not finite")
	ErrProjection    = errors.New("projection failed")
)

// RowError ties a failure to a data row of the input. Line counts data rows
// from 1; the header is not counted.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d: %s: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
