// Package stats reads the tab-separated statistics files produced by the
// resistance-caller evaluation pipeline.
package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Column names shared by the per-drug and regimen summary files.
const (
	ColDataset = "Dataset"
	ColTool    = "Tool"
	ColDrug    = "Drug"
	ColTP      = "TP"
	ColFP      = "FP"
	ColTN      = "TN"
	ColFN      = "FN"

	ColTruthRegimen          = "Truth_regimen"
	ColTruthRegimenAmbiguous = "Truth_regimen_ambiguous"
	ColCalledRegimen         = "Called_regimen"
	ColCount                 = "Count"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyFile is returned when the file has no header row.
	ErrEmptyFile = errors.New("empty file")
)

// Record is one data row keyed by header name.
type Record map[string]string

// Get returns the value of a column, or an empty string if the row was short.
func (r Record) Get(column string) string {
	return r[column]
}

// Int parses a column as a base-10 integer.
func (r Record) Int(column string) (int, error) {
	v, err := strconv.Atoi(r[column])
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}

// Reader yields Records from a tab-separated stream with a header row.
type Reader struct {
	csv    *csv.Reader
	header []string
}

// NewReader reads the header row from r and checks that every required
// column is present.
func NewReader(r io.Reader, required ...string) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	for _, col := range required {
		if _, ok := present[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	return &Reader{csv: cr, header: header}, nil
}

// Header returns the column names in file order.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next record, or io.EOF when the stream is exhausted.
func (r *Reader) Next() (Record, error) {
	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	rec := make(Record, len(r.header))
	for i, h := range r.header {
		if i < len(fields) {
			rec[h] = fields[i]
		} else {
			rec[h] = ""
		}
	}
	return rec, nil
}

// Each calls fn for every record in r. Iteration stops at the first error
// returned by fn.
func (r *Reader) Each(fn func(Record) error) error {
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// ReadFile opens path and calls fn for every record. The file is closed on
// every return path.
func ReadFile(path string, required []string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open stats file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, err := NewReader(f, required...)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := r.Each(fn); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
