package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/utm2latlng/internal/core/domain"
	"github.com/samirrijal/utm2latlng/internal/core/ports"
	"github.com/samirrijal/utm2latlng/internal/pkg/telemetry"
)

// Failure reasons reported to the ConversionRecorder.
const (
	ReasonRead        = "read"
	ReasonMalformed   = "malformed"
	ReasonInvalidZone = "invalid_zone"
	ReasonNonFinite   = "non_finite"
	ReasonProjection  = "projection"
	ReasonWrite       = "write"
	ReasonCanceled    = "canceled"
)

// ConvertService drives rows from a source through the converter into a sink.
type ConvertService struct {
	conv     ports.Converter
	northern bool
	rec      ports.ConversionRecorder
	tracer   trace.Tracer
}

// NewConvertService creates a new ConvertService. rec may be nil.
func NewConvertService(conv ports.Converter, northern bool, rec ports.ConversionRecorder) *ConvertService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ConvertService{
		conv:     conv,
		northern: northern,
		rec:      rec,
		tracer:   otel.Tracer("github.com/samirrijal/utm2latlng/internal/core/usecases"),
	}
}

// Result summarises a run.
type Result struct {
	RowsRead    int
	RowsWritten int
	Elapsed     time.Duration
}

// Run converts every row of src in order and writes it to dst. The first
// error stops the run; rows already handed to dst are not rolled back here,
// that is the sink's job.
func (s *ConvertService) Run(ctx context.Context, src ports.RowSource, dst ports.RowSink) (Result, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanConvertRun)
	defer span.End()

	start := time.Now()
	res, err := s.run(ctx, src, dst)
	res.Elapsed = time.Since(start)

	span.SetAttributes(
		attribute.Int(telemetry.AttrRowsRead, res.RowsRead),
		attribute.Int(telemetry.AttrRowsWritten, res.RowsWritten),
		attribute.Bool(telemetry.AttrNorthern, s.northern),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func (s *ConvertService) run(ctx context.Context, src ports.RowSource, dst ports.RowSink) (Result, error) {
	var res Result
	for {
		if err := ctx.Err(); err != nil {
			s.rec.RowFailed(ReasonCanceled)
			return res, fmt.Errorf("aborted after %d rows: %w", res.RowsRead, err)
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			s.rec.RowFailed(ReasonRead)
			return res, fmt.Errorf("read: %w", err)
		}
		res.RowsRead++
		s.rec.RowRead()

		if err := s.ConvertRow(&row); err != nil {
			s.rec.RowFailed(failureReason(err))
			return res, err
		}

		if err := dst.Write(row); err != nil {
			s.rec.RowFailed(ReasonWrite)
			return res, fmt.Errorf("write row %d: %w", row.Line, err)
		}
		res.RowsWritten++
		s.rec.RowConverted()
	}
}

// ConvertRow fills in Latitude and Longitude from the row's grid fields.
func (s *ConvertService) ConvertRow(row *domain.Row) error {
	c, err := row.Coord()
	if err != nil {
		return err
	}

	p, err := s.conv.Point(c, s.northern)
	if err != nil {
		return &domain.RowError{Line: row.Line, Err: err}
	}

	row.Latitude = p.Lat
	row.Longitude = p.Lon
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedRow):
		return ReasonMalformed
	case errors.Is(err, domain.ErrInvalidZone):
		return ReasonInvalidZone
	case errors.Is(err, domain.ErrNonFinite):
		return ReasonNonFinite
	default:
		return ReasonProjection
	}
}

type nopRecorder struct{}

func (nopRecorder) RowRead()         {}
func (nopRecorder) RowConverted()    {}
func (nopRecorder) RowFailed(string) {}
