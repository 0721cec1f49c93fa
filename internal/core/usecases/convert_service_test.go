package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/utm2latlng/internal/core/domain"
	"github.com/samirrijal/utm2latlng/internal/core/usecases"
)

// --- Mocks ---

type mockConverter struct {
	pointFn func(c domain.UTMCoord, northern bool) (domain.GeoPoint, error)
}

func (m *mockConverter) Point(c domain.UTMCoord, northern bool) (domain.GeoPoint, error) {
	if m.pointFn != nil {
		return m.pointFn(c, northern)
	}
	return domain.GeoPoint{}, nil
}

type sliceSource struct {
	rows []domain.Row
	err  error // returned once rows are exhausted, instead of io.EOF
}

func (s *sliceSource) Next() (domain.Row, error) {
	if len(s.rows) == 0 {
		if s.err != nil {
			return domain.Row{}, s.err
		}
		return domain.Row{}, io.EOF
	}
	r := s.rows[0]
	s.rows = s.rows[1:]
	return r, nil
}

type mockSink struct {
	rows    []domain.Row
	writeFn func(domain.Row) error
}

func (m *mockSink) Write(r domain.Row) error {
	if m.writeFn != nil {
		if err := m.writeFn(r); err != nil {
			return err
		}
	}
	m.rows = append(m.rows, r)
	return nil
}

type countingRecorder struct {
	read, converted int
	failed          []string
}

func (c *countingRecorder) RowRead()                { c.read++ }
func (c *countingRecorder) RowConverted()           { c.converted++ }
func (c *countingRecorder) RowFailed(reason string) { c.failed = append(c.failed, reason) }

// echoConverter returns (northing, easting + zone) so tests can see which
// inputs reached it.
func echoConverter() *mockConverter {
	return &mockConverter{
		pointFn: func(c domain.UTMCoord, northern bool) (domain.GeoPoint, error) {
			return domain.GeoPoint{Lat: c.Northing, Lon: c.Easting + float64(c.Zone)}, nil
		},
	}
}

// --- Tests ---

func TestConvertService_Run_PreservesOrderAndText(t *testing.T) {
	src := &sliceSource{rows: []domain.Row{
		{Line: 1, Zone: "33", Easting: "500000", Northing: "4649776"},
		{Line: 2, Zone: " 1", Easting: "1.5e5", Northing: "0100"},
		{Line: 3, Zone: "60", Easting: "700000.250", Northing: "12"},
	}}
	sink := &mockSink{}
	rec := &countingRecorder{}

	svc := usecases.NewConvertService(echoConverter(), true, rec)
	res, err := svc.Run(context.Background(), src, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Row{
		{Line: 1, Zone: "33", Easting: "500000", Northing: "4649776", Latitude: 4649776, Longitude: 500033},
		{Line: 2, Zone: " 1", Easting: "1.5e5", Northing: "0100", Latitude: 100, Longitude: 150001},
		{Line: 3, Zone: "60", Easting: "700000.250", Northing: "12", Latitude: 12, Longitude: 700060.25},
	}
	if diff := cmp.Diff(want, sink.rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if res.RowsRead != 3 || res.RowsWritten != 3 {
		t.Errorf("expected 3/3 rows, got %d/%d", res.RowsRead, res.RowsWritten)
	}
	if rec.read != 3 || rec.converted != 3 || len(rec.failed) != 0 {
		t.Errorf("unexpected recorder state: %+v", rec)
	}
}

func TestConvertService_Run_Empty(t *testing.T) {
	sink := &mockSink{}
	svc := usecases.NewConvertService(echoConverter(), true, nil)

	res, err := svc.Run(context.Background(), &sliceSource{}, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RowsRead != 0 || len(sink.rows) != 0 {
		t.Errorf("expected no rows, got %d read, %d written", res.RowsRead, len(sink.rows))
	}
}

func TestConvertService_Run_PassesHemisphere(t *testing.T) {
	var got []bool
	conv := &mockConverter{
		pointFn: func(c domain.UTMCoord, northern bool) (domain.GeoPoint, error) {
			got = append(got, northern)
			return domain.GeoPoint{}, nil
		},
	}
	src := &sliceSource{rows: []domain.Row{{Line: 1, Zone: "33", Easting: "1", Northing: "1"}}}

	svc := usecases.NewConvertService(conv, false, nil)
	if _, err := svc.Run(context.Background(), src, &mockSink{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] {
		t.Errorf("expected one southern conversion, got %v", got)
	}
}

func TestConvertService_ConvertRow_UsesParsedCoord(t *testing.T) {
	var got domain.UTMCoord
	conv := &mockConverter{
		pointFn: func(c domain.UTMCoord, northern bool) (domain.GeoPoint, error) {
			got = c
			return domain.GeoPoint{Lat: -33.5, Lon: 151.25}, nil
		},
	}
	row := domain.Row{Line: 4, Zone: " 56 ", Easting: "334368.6336", Northing: "6250948.3454"}

	svc := usecases.NewConvertService(conv, true, nil)
	if err := svc.ConvertRow(&row); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.UTMCoord{Zone: 56, Easting: 334368.6336, Northing: 6250948.3454}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("coord mismatch (-want +got):\n%s", diff)
	}
	if row.Latitude != -33.5 || row.Longitude != 151.25 {
		t.Errorf("expected point copied into row, got (%v, %v)", row.Latitude, row.Longitude)
	}
}

func TestConvertService_Run_MalformedRowAborts(t *testing.T) {
	src := &sliceSource{rows: []domain.Row{
		{Line: 1, Zone: "33", Easting: "500000", Northing: "4649776"},
		{Line: 2, Zone: "33", Easting: "n/a", Northing: "4649776"},
		{Line: 3, Zone: "33", Easting: "500000", Northing: "4649776"},
	}}
	sink := &mockSink{}
	rec := &countingRecorder{}

	svc := usecases.NewConvertService(echoConverter(), true, rec)
	res, err := svc.Run(context.Background(), src, sink)
	if !errors.Is(err, domain.ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
	var rowErr *domain.RowError
	if !errors.As(err, &rowErr) || rowErr.Line != 2 || rowErr.Column != domain.ColEasting {
		t.Errorf("expected row 2 Easting error, got %v", err)
	}
	if res.RowsRead != 2 || len(sink.rows) != 1 {
		t.Errorf("expected abort on second row, got %d read, %d written", res.RowsRead, len(sink.rows))
	}
	if diff := cmp.Diff([]string{usecases.ReasonMalformed}, rec.failed); diff != "" {
		t.Errorf("failure reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertService_Run_ConverterErrorCarriesLine(t *testing.T) {
	conv := &mockConverter{
		pointFn: func(c domain.UTMCoord, northern bool) (domain.GeoPoint, error) {
			return domain.GeoPoint{}, fmt.Errorf("%w: %d", domain.ErrInvalidZone, c.Zone)
		},
	}
	src := &sliceSource{rows: []domain.Row{{Line: 7, Zone: "61", Easting: "1", Northing: "1"}}}
	rec := &countingRecorder{}

	svc := usecases.NewConvertService(conv, true, rec)
	_, err := svc.Run(context.Background(), src, &mockSink{})
	if !errors.Is(err, domain.ErrInvalidZone) {
		t.Fatalf("expected ErrInvalidZone, got %v", err)
	}
	var rowErr *domain.RowError
	if !errors.As(err, &rowErr) || rowErr.Line != 7 {
		t.Errorf("expected row 7 in error, got %v", err)
	}
	if len(rec.failed) != 1 || rec.failed[0] != usecases.ReasonInvalidZone {
		t.Errorf("expected invalid_zone failure, got %v", rec.failed)
	}
}

func TestConvertService_Run_SourceError(t *testing.T) {
	boom := errors.New("bare quote")
	src := &sliceSource{
		rows: []domain.Row{{Line: 1, Zone: "33", Easting: "1", Northing: "1"}},
		err:  boom,
	}
	sink := &mockSink{}

	svc := usecases.NewConvertService(echoConverter(), true, nil)
	res, err := svc.Run(context.Background(), src, sink)
	if !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if res.RowsWritten != 1 {
		t.Errorf("expected 1 row written before failure, got %d", res.RowsWritten)
	}
}

func TestConvertService_Run_SinkError(t *testing.T) {
	boom := errors.New("disk full")
	sink := &mockSink{writeFn: func(domain.Row) error { return boom }}
	src := &sliceSource{rows: []domain.Row{{Line: 1, Zone: "33", Easting: "1", Northing: "1"}}}
	rec := &countingRecorder{}

	svc := usecases.NewConvertService(echoConverter(), true, rec)
	_, err := svc.Run(context.Background(), src, sink)
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if rec.converted != 0 || len(rec.failed) != 1 || rec.failed[0] != usecases.ReasonWrite {
		t.Errorf("unexpected recorder state: %+v", rec)
	}
}

func TestConvertService_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &sliceSource{rows: []domain.Row{{Line: 1, Zone: "33", Easting: "1", Northing: "1"}}}
	svc := usecases.NewConvertService(echoConverter(), true, nil)

	res, err := svc.Run(ctx, src, &mockSink{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.RowsRead != 0 {
		t.Errorf("expected no rows read, got %d", res.RowsRead)
	}
}
