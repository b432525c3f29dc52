package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/evalrescallers/paper-tables/internal/latex"
	"github.com/evalrescallers/paper-tables/internal/metrics"
	"github.com/evalrescallers/paper-tables/internal/stats"
	"github.com/evalrescallers/paper-tables/internal/tools"
)

// NumRegimens is the number of regimen classes, numbered from 1.
const NumRegimens = 12

// Drug markers that make a truth regimen ambiguous.
const (
	AmbiguousIsoniazid    = "H"
	AmbiguousMoxifloxacin = "Mfx"
)

// noRegimen marks a sample without a truth regimen.
const noRegimen = "NA"

var regimenRequired = []string{
	stats.ColDataset, stats.ColTool,
	stats.ColTruthRegimen, stats.ColTruthRegimenAmbiguous,
	stats.ColCalledRegimen, stats.ColCount,
}

// Tally counts correctly and incorrectly called samples.
type Tally struct {
	Right int
	Wrong int
}

// Add counts n samples as right or wrong.
func (t *Tally) Add(right bool, n int) {
	if right {
		t.Right += n
	} else {
		t.Wrong += n
	}
}

// Total returns Right+Wrong.
func (t Tally) Total() int {
	return t.Right + t.Wrong
}

// RegimenTally holds one tool's totals and the breakdown by truth regimen.
// Breakdown[i] is regimen class i+1.
type RegimenTally struct {
	Tally
	Breakdown [NumRegimens]Tally
}

// ParseAmbiguity splits the Truth_regimen_ambiguous column into a set of
// drug markers. "." and "NA" mean no ambiguity.
func ParseAmbiguity(s string) map[string]struct{} {
	if s == "." || s == noRegimen {
		return map[string]struct{}{}
	}
	return toSet(strings.Split(s, ","))
}

// RegimenCorrect reports whether called counts as a correct call of truth.
// Besides an exact match, an ambiguous isoniazid call lets regimen 10 be
// called as 11, ambiguous isoniazid and moxifloxacin let 10 be called as 12,
// and an ambiguous moxifloxacin call lets 11 be called as 12.
func RegimenCorrect(truth, called string, ambiguous map[string]struct{}) bool {
	if truth == called {
		return true
	}
	_, h := ambiguous[AmbiguousIsoniazid]
	_, mfx := ambiguous[AmbiguousMoxifloxacin]
	switch {
	case truth == "10" && called == "11":
		return h
	case truth == "10" && called == "12":
		return h && mfx
	case truth == "11" && called == "12":
		return mfx
	}
	return false
}

func regimenIndex(truth string) (int, error) {
	n, err := strconv.Atoi(truth)
	if err != nil || n < 1 || n > NumRegimens || strconv.Itoa(n) != truth {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegimen, truth)
	}
	return n - 1, nil
}

// TallyRegimens reads a regimen summary file and counts right and wrong
// calls per selected tool, weighted by the Count column. Every selected tool
// gets an entry.
func TallyRegimens(summaryFile string, datasets, toolIDs []string) (map[string]*RegimenTally, error) {
	datasetSet := toSet(datasets)
	toolSet := toSet(toolIDs)

	counts := make(map[string]*RegimenTally, len(toolIDs))
	for _, tool := range toolIDs {
		counts[tool] = &RegimenTally{}
	}

	err := stats.ReadFile(summaryFile, regimenRequired, func(rec stats.Record) error {
		if _, ok := datasetSet[rec.Get(stats.ColDataset)]; !ok {
			return nil
		}
		tool := rec.Get(stats.ColTool)
		if _, ok := toolSet[tool]; !ok {
			return nil
		}
		truth := rec.Get(stats.ColTruthRegimen)
		if truth == noRegimen {
			return nil
		}

		idx, err := regimenIndex(truth)
		if err != nil {
			return err
		}
		n, err := rec.Int(stats.ColCount)
		if err != nil {
			return err
		}

		ambiguous := ParseAmbiguity(rec.Get(stats.ColTruthRegimenAmbiguous))
		right := RegimenCorrect(truth, rec.Get(stats.ColCalledRegimen), ambiguous)

		tally := counts[tool]
		tally.Add(right, n)
		tally.Breakdown[idx].Add(right, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// percentCorrect formats 100*right/total to one decimal place.
func percentCorrect(t Tally) (string, error) {
	p, err := metrics.Percent(t.Right, t.Total())
	if err != nil {
		return "", err
	}
	return metrics.Fixed(metrics.Round(p, 1), 1), nil
}

// RenderRegimens writes the overall and per-regimen percent-correct tables,
// one row per tool sorted by identifier and labelled with its display name.
func RenderRegimens(w io.Writer, counts map[string]*RegimenTally, names tools.Names) error {
	toolIDs := make([]string, 0, len(counts))
	for tool := range counts {
		toolIDs = append(toolIDs, tool)
	}
	sort.Strings(toolIDs)

	if err := names.Validate(toolIDs); err != nil {
		return err
	}

	overall := make([][]string, 0, len(toolIDs))
	breakdown := make([][]string, 0, len(toolIDs))
	for _, tool := range toolIDs {
		tally := counts[tool]
		name, err := names.DisplayName(tool)
		if err != nil {
			return err
		}

		pct, err := percentCorrect(tally.Tally)
		if err != nil {
			return fmt.Errorf("tool %s: %w", tool, err)
		}
		overall = append(overall, []string{name, strconv.Itoa(tally.Right), strconv.Itoa(tally.Wrong), pct})

		row := []string{name}
		for _, b := range tally.Breakdown {
			if b.Total() == 0 {
				row = append(row, "0")
				continue
			}
			p, err := percentCorrect(b)
			if err != nil {
				return fmt.Errorf("tool %s: %w", tool, err)
			}
			row = append(row, p)
		}
		breakdown = append(breakdown, row)
	}

	tab := latex.NewTabular(w)
	tab.Begin("lrrr")
	tab.Row("Tool", "Correct regimen", "Incorrect regimen", "Percent correct")
	tab.HLine()
	for _, row := range overall {
		tab.Row(row...)
	}
	tab.HLine()
	tab.End()
	tab.Line("\n\n")

	classes := make([]string, NumRegimens)
	for i := range classes {
		classes[i] = strconv.Itoa(i + 1)
	}
	tab.Begin("l" + latex.Repeat("r", NumRegimens))
	tab.Line("Tool & " + strings.Join(classes, " & ") + `\\`)
	tab.HLine()
	for _, row := range breakdown {
		tab.Row(row...)
	}
	tab.HLine()
	tab.End()
	return tab.Err()
}

// RegimenSummaryTables writes the regimen percent-correct tables for the
// selected datasets and tools to outfile.
func RegimenSummaryTables(summaryFile, outfile string, datasets, toolIDs []string, names tools.Names) error {
	counts, err := TallyRegimens(summaryFile, datasets, toolIDs)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := RenderRegimens(&buf, counts, names); err != nil {
		return err
	}

	slog.Debug("Writing regimen summary tables",
		"datasets", datasets,
		"tools", len(counts),
		"outfile", outfile)
	return writeFile(outfile, &buf)
}
