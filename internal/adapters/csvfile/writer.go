package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/samirrijal/utm2latlng/internal/core/domain"
)

// ErrClosed is returned when a Writer is used after Commit or Abort.
var ErrClosed = errors.New("csvfile: writer closed")

// outputPerm applies to new files, before umask. A replaced file keeps its mode.
const outputPerm = 0o644

// Writer writes converted rows to a pending file next to the destination
// and moves it into place on Commit. It implements ports.RowSink.
type Writer struct {
	pf   *renameio.PendingFile
	csv  *csv.Writer
	done bool
}

// Option configures a Writer.
type Option func(*csv.Writer)

// WithCRLF terminates records with \r\n instead of \n.
func WithCRLF(crlf bool) Option {
	return func(w *csv.Writer) { w.UseCRLF = crlf }
}

// Create starts a new output for path and writes the header row. Nothing is
// visible at path until Commit.
func Create(path string, opts ...Option) (*Writer, error) {
	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(outputPerm),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	w := &Writer{pf: pf, csv: csv.NewWriter(pf)}
	for _, opt := range opts {
		opt(w.csv)
	}

	if err := w.csv.Write(domain.OutputColumns); err != nil {
		w.Abort()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return w, nil
}

// Write appends one row in domain.OutputColumns order.
func (w *Writer) Write(row domain.Row) error {
	if w.done {
		return ErrClosed
	}
	return w.csv.Write(row.Record())
}

// Commit flushes the rows and replaces any existing file at the destination.
func (w *Writer) Commit() error {
	if w.done {
		return ErrClosed
	}
	w.done = true

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.pf.Cleanup()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := w.pf.CloseAtomicallyReplace(); err != nil {
		w.pf.Cleanup()
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

// Abort drops everything written so far. It is a no-op after Commit, so it
// can be deferred.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	if err := w.pf.Cleanup(); err != nil {
		return fmt.Errorf("remove pending output: %w", err)
	}
	return nil
}
