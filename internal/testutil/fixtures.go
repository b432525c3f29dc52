// Package testutil builds statistics files for tests. Files live in the
// test's temporary directory and are removed automatically.
//
// Example:
//
//	path := testutil.NewStatsFile(t).
//		WithDrugStat(testutil.DrugStat{Dataset: "val", Tool: "mykrobe", Drug: "Isoniazid", TP: 80}).
//		Write()
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// StatsColumns is the header of a per-drug statistics file.
var StatsColumns = []string{
	"Dataset", "Tool", "Drug", "TP", "FP", "TN", "FN",
	"FNR", "FNR_conf_low", "FNR_conf_high",
	"FPR", "FPR_conf_low", "FPR_conf_high",
	"PPV", "PPV_conf_low", "PPV_conf_high",
	"NPV", "NPV_conf_low", "NPV_conf_high",
}

// RegimenColumns is the header of a regimen summary file.
var RegimenColumns = []string{
	"Dataset", "Tool", "Truth_regimen", "Truth_regimen_ambiguous", "Called_regimen", "Count",
}

// DrugStat is one row of a per-drug statistics file. Empty rate fields are
// written as "0".
type DrugStat struct {
	Dataset string
	Tool    string
	Drug    string
	TP      int
	FP      int
	TN      int
	FN      int
	// FNR, FPR, PPV and NPV each hold value, conf_low, conf_high.
	FNR [3]string
	FPR [3]string
	PPV [3]string
	NPV [3]string
}

// RegimenCall is one row of a regimen summary file.
type RegimenCall struct {
	Dataset   string
	Tool      string
	Truth     string
	Ambiguous string
	Called    string
	Count     int
}

// TSVFile accumulates rows for a tab-separated file.
type TSVFile struct {
	t      *testing.T
	name   string
	header []string
	rows   [][]string
}

// NewTSVFile starts a file with the given header.
func NewTSVFile(t *testing.T, name string, header ...string) *TSVFile {
	t.Helper()
	return &TSVFile{t: t, name: name, header: header}
}

// NewStatsFile starts a per-drug statistics file.
func NewStatsFile(t *testing.T) *TSVFile {
	t.Helper()
	return NewTSVFile(t, "stats.tsv", StatsColumns...)
}

// NewRegimenFile starts a regimen summary file.
func NewRegimenFile(t *testing.T) *TSVFile {
	t.Helper()
	return NewTSVFile(t, "regimen_summary.tsv", RegimenColumns...)
}

// WithRow appends raw fields.
func (f *TSVFile) WithRow(fields ...string) *TSVFile {
	f.rows = append(f.rows, fields)
	return f
}

// WithDrugStat appends a per-drug statistics row.
func (f *TSVFile) WithDrugStat(s DrugStat) *TSVFile {
	row := []string{
		s.Dataset, s.Tool, s.Drug,
		strconv.Itoa(s.TP), strconv.Itoa(s.FP), strconv.Itoa(s.TN), strconv.Itoa(s.FN),
	}
	for _, rate := range [][3]string{s.FNR, s.FPR, s.PPV, s.NPV} {
		for _, v := range rate {
			if v == "" {
				v = "0"
			}
			row = append(row, v)
		}
	}
	return f.WithRow(row...)
}

// WithRegimenCall appends a regimen summary row.
func (f *TSVFile) WithRegimenCall(c RegimenCall) *TSVFile {
	return f.WithRow(c.Dataset, c.Tool, c.Truth, c.Ambiguous, c.Called, strconv.Itoa(c.Count))
}

// Write writes the file into a fresh temporary directory and returns its path.
func (f *TSVFile) Write() string {
	f.t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(f.header, "\t"))
	b.WriteByte('\n')
	for _, row := range f.rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}

	path := filepath.Join(f.t.TempDir(), f.name)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		f.t.Fatalf("failed to write %s: %v", f.name, err)
	}
	return path
}

// ReadFile returns the contents of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
