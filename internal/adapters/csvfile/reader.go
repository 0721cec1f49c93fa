// Package csvfile reads UTM rows from CSV and writes converted rows back out.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samirrijal/utm2latlng/internal/core/domain"
)

// Reader streams rows from a CSV file with a header. It implements
// ports.RowSource.
type Reader struct {
	csv    *csv.Reader
	closer io.Closer
	cols   map[string]int
	line   int
}

// Open opens the CSV file at path and reads its header.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header from src and checks the required columns.
func NewReader(src io.Reader) (*Reader, error) {
	cr := csv.NewReader(src)
	// Short records are allowed; their missing fields read as empty and fail
	// to parse like any other non-numeric value.
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", domain.ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := indexColumns(header)
	var missing []string
	for _, name := range domain.RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}

	return &Reader{csv: cr, cols: cols}, nil
}

// Next returns the next data row, or io.EOF after the last one.
func (r *Reader) Next() (domain.Row, error) {
	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return domain.Row{}, io.EOF
	}
	if err != nil {
		return domain.Row{}, fmt.Errorf("parse csv: %w", err)
	}
	r.line++

	return domain.Row{
		Line:     r.line,
		Zone:     getField(record, r.cols, domain.ColZone),
		Easting:  getField(record, r.cols, domain.ColEasting),
		Northing: getField(record, r.cols, domain.ColNorthing),
	}, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.TrimSpace(col)] = i
	}
	return m
}

// getField returns the raw field; values are copied to the output verbatim.
func getField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
