package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/evalrescallers/paper-tables/internal/latex"
	"github.com/evalrescallers/paper-tables/internal/stats"
)

// accuracyHeader lists the columns of the per-tool accuracy table.
var accuracyHeader = []string{
	"Drug", "TP", "FP", "TN", "FN",
	`VME (95\% CI)`, `ME (95\% CI)`, `PPV (95\% CI)`, `NPV (95\% CI)`,
}

// Rate columns and the stem of their confidence-interval columns, in table order.
var ciColumns = []string{"FNR", "FPR", "PPV", "NPV"}

var accuracyRequired = []string{
	stats.ColDataset, stats.ColTool, stats.ColDrug,
	stats.ColTP, stats.ColFP, stats.ColTN, stats.ColFN,
	"FNR", "FNR_conf_low", "FNR_conf_high",
	"FPR", "FPR_conf_low", "FPR_conf_high",
	"PPV", "PPV_conf_low", "PPV_conf_high",
	"NPV", "NPV_conf_low", "NPV_conf_high",
}

// AccuracyRow is one drug's line in the per-tool accuracy table. Values are
// copied verbatim from the stats file.
type AccuracyRow struct {
	Drug string
	TP   string
	FP   string
	TN   string
	FN   string
	VME  string
	ME   string
	PPV  string
	NPV  string
}

// Cells returns the row in column order.
func (r AccuracyRow) Cells() []string {
	return []string{r.Drug, r.TP, r.FP, r.TN, r.FN, r.VME, r.ME, r.PPV, r.NPV}
}

// ConfidenceCell formats a rate and its 95% interval as $v$($low$-$high$\%).
func ConfidenceCell(value, low, high string) string {
	return latex.Math(value) + "(" + latex.Math(low) + "-" + latex.Math(high) + `\%)`
}

func accuracyRowFromRecord(rec stats.Record) AccuracyRow {
	ci := make([]string, len(ciColumns))
	for i, col := range ciColumns {
		ci[i] = ConfidenceCell(rec.Get(col), rec.Get(col+"_conf_low"), rec.Get(col+"_conf_high"))
	}
	return AccuracyRow{
		Drug: rec.Get(stats.ColDrug),
		TP:   rec.Get(stats.ColTP),
		FP:   rec.Get(stats.ColFP),
		TN:   rec.Get(stats.ColTN),
		FN:   rec.Get(stats.ColFN),
		VME:  ci[0],
		ME:   ci[1],
		PPV:  ci[2],
		NPV:  ci[3],
	}
}

// LoadAccuracyRows reads the per-drug rows of one tool on one dataset.
func LoadAccuracyRows(statsFile, tool, dataset string) (map[string]AccuracyRow, error) {
	rows := make(map[string]AccuracyRow)
	err := stats.ReadFile(statsFile, accuracyRequired, func(rec stats.Record) error {
		if rec.Get(stats.ColDataset) != dataset || rec.Get(stats.ColTool) != tool {
			return nil
		}
		drug := rec.Get(stats.ColDrug)
		if _, ok := rows[drug]; ok {
			return fmt.Errorf("%w: %s (tool %s, dataset %s)", ErrDuplicateDrug, drug, tool, dataset)
		}
		rows[drug] = accuracyRowFromRecord(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RenderAccuracy writes the accuracy table for drugs, in the given order.
// Every drug must be present in rows.
func RenderAccuracy(w io.Writer, rows map[string]AccuracyRow, drugs []string) error {
	for _, drug := range drugs {
		if _, ok := rows[drug]; !ok {
			slog.Error("Drug not in tool stats", "drug", drug)
			return fmt.Errorf("%w: %s", ErrMissingDrug, drug)
		}
	}

	tab := latex.NewTabular(w)
	if len(drugs) > 0 {
		tab.Begin(latex.Repeat("c", len(accuracyHeader)))
		tab.HLine()
		tab.Row(accuracyHeader...)
		tab.HLine()
	}
	for _, drug := range drugs {
		tab.Row(rows[drug].Cells()...)
	}
	tab.HLine()
	tab.End()
	return tab.Err()
}

// ToolAccuracyTable writes the per-drug accuracy table of one tool on one
// dataset to outfile. Drugs appear in the order given.
func ToolAccuracyTable(statsFile, tool string, drugs []string, dataset, outfile string) error {
	rows, err := LoadAccuracyRows(statsFile, tool, dataset)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := RenderAccuracy(&buf, rows, drugs); err != nil {
		return fmt.Errorf("tool %s, dataset %s: %w", tool, dataset, err)
	}

	slog.Debug("Writing accuracy table",
		"tool", tool,
		"dataset", dataset,
		"drugs", len(drugs),
		"outfile", outfile)
	return writeFile(outfile, &buf)
}
