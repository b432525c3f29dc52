package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/evalrescallers/paper-tables/internal/latex"
	"github.com/evalrescallers/paper-tables/internal/metrics"
	"github.com/evalrescallers/paper-tables/internal/stats"
)

var meanColumns = []string{"Sensitivity", "Specificity", "VME", "ME", "PPV", "NPV"}

var meanRequired = []string{
	stats.ColDataset, stats.ColTool, stats.ColDrug,
	stats.ColTP, stats.ColFP, stats.ColTN, stats.ColFN,
}

// SumCounts totals TP/FP/TN/FN per tool over the records of dataset whose
// drug and tool are selected. Every selected tool gets an entry, even when
// no record matches it.
func SumCounts(statsFile string, tools, drugs []string, dataset string) (map[string]metrics.Counts, error) {
	toolSet := toSet(tools)
	drugSet := toSet(drugs)

	totals := make(map[string]metrics.Counts, len(tools))
	for _, tool := range tools {
		totals[tool] = metrics.Counts{}
	}

	err := stats.ReadFile(statsFile, meanRequired, func(rec stats.Record) error {
		if rec.Get(stats.ColDataset) != dataset {
			return nil
		}
		if _, ok := drugSet[rec.Get(stats.ColDrug)]; !ok {
			return nil
		}
		tool := rec.Get(stats.ColTool)
		if _, ok := toolSet[tool]; !ok {
			return nil
		}

		c, err := countsFromRecord(rec)
		if err != nil {
			return err
		}
		total := totals[tool]
		total.Add(c)
		totals[tool] = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func countsFromRecord(rec stats.Record) (metrics.Counts, error) {
	var c metrics.Counts
	fields := []struct {
		col string
		dst *int
	}{
		{stats.ColTP, &c.TP},
		{stats.ColFP, &c.FP},
		{stats.ColTN, &c.TN},
		{stats.ColFN, &c.FN},
	}
	for _, f := range fields {
		v, err := rec.Int(f.col)
		if err != nil {
			return metrics.Counts{}, err
		}
		*f.dst = v
	}
	return c, nil
}

// RenderMeanSensSpec writes one row of rates per tool, sorted by tool.
func RenderMeanSensSpec(w io.Writer, totals map[string]metrics.Counts) error {
	toolIDs := make([]string, 0, len(totals))
	for tool := range totals {
		toolIDs = append(toolIDs, tool)
	}
	sort.Strings(toolIDs)

	rows := make([][]string, 0, len(toolIDs))
	for _, tool := range toolIDs {
		rates, err := totals[tool].Rates()
		if err != nil {
			return fmt.Errorf("tool %s: %w", tool, err)
		}
		row := []string{tool}
		for _, v := range rates.Values() {
			row = append(row, metrics.Fixed(v, 2))
		}
		rows = append(rows, row)
	}

	header := []string{"Tool"}
	for _, col := range meanColumns {
		header = append(header, latex.MultiColumn(1, "c", col))
	}

	tab := latex.NewTabular(w)
	tab.SetRowEnd(latex.RowEndSpace)
	tab.Begin("l" + latex.Repeat("c", len(meanColumns)))
	tab.Row(header...)
	for _, row := range rows {
		tab.Row(row...)
	}
	tab.End()
	return tab.Err()
}

// MeanSensSpecTable writes pooled sensitivity, specificity, VME, ME, PPV and
// NPV per tool on one dataset to outfile.
func MeanSensSpecTable(statsFile string, tools, drugs []string, dataset, outfile string) error {
	totals, err := SumCounts(statsFile, tools, drugs, dataset)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := RenderMeanSensSpec(&buf, totals); err != nil {
		return fmt.Errorf("dataset %s: %w", dataset, err)
	}

	slog.Debug("Writing mean sensitivity/specificity table",
		"dataset", dataset,
		"tools", len(totals),
		"outfile", outfile)
	return writeFile(outfile, &buf)
}
