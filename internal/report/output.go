// Package report builds the LaTeX tables of the evaluation paper from the
// pipeline's statistics files.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// Table-level validation errors.
var (
	ErrMissingDrug    = errors.New("drug missing from stats")
	ErrDuplicateDrug  = errors.New("drug listed twice for tool and dataset")
	ErrUnknownRegimen = errors.New("unknown regimen")
)

// writeFile writes a fully rendered table to path.
func writeFile(path string, buf *bytes.Buffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	if _, err := buf.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
