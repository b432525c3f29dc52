package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evalrescallers/paper-tables/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accuracyFixture(t *testing.T) string {
	t.Helper()
	return testutil.NewStatsFile(t).
		WithDrugStat(testutil.DrugStat{
			Dataset: "val", Tool: "mykrobe", Drug: "Isoniazid",
			TP: 80, FP: 10, TN: 90, FN: 20,
			FNR: [3]string{"20.0", "13.1", "29.0"},
			FPR: [3]string{"10.0", "5.3", "18.1"},
			PPV: [3]string{"88.9", "80.5", "94.5"},
			NPV: [3]string{"81.8", "73.3", "88.5"},
		}).
		WithDrugStat(testutil.DrugStat{Dataset: "val", Tool: "mykrobe", Drug: "Rifampicin", TP: 50, FP: 2, TN: 100, FN: 3}).
		WithDrugStat(testutil.DrugStat{Dataset: "val", Tool: "tbprofiler", Drug: "Isoniazid", TP: 1}).
		WithDrugStat(testutil.DrugStat{Dataset: "test", Tool: "mykrobe", Drug: "Isoniazid", TP: 2}).
		Write()
}

func TestToolAccuracyTable(t *testing.T) {
	statsFile := accuracyFixture(t)
	out := filepath.Join(t.TempDir(), "mykrobe.tex")

	err := ToolAccuracyTable(statsFile, "mykrobe", []string{"Rifampicin", "Isoniazid"}, "val", out)
	require.NoError(t, err)

	want := `\begin{tabular}{ccccccccc}
\hline
Drug & TP & FP & TN & FN & VME (95\% CI) & ME (95\% CI) & PPV (95\% CI) & NPV (95\% CI) \\
\hline
Rifampicin & 50 & 2 & 100 & 3 & $0$($0$-$0$\%) & $0$($0$-$0$\%) & $0$($0$-$0$\%) & $0$($0$-$0$\%) \\
Isoniazid & 80 & 10 & 90 & 20 & $20.0$($13.1$-$29.0$\%) & $10.0$($5.3$-$18.1$\%) & $88.9$($80.5$-$94.5$\%) & $81.8$($73.3$-$88.5$\%) \\
\hline
\end{tabular}
`
	assert.Equal(t, want, testutil.ReadFile(t, out))
}

func TestToolAccuracyTable_SubsetOfDrugs(t *testing.T) {
	statsFile := accuracyFixture(t)
	out := filepath.Join(t.TempDir(), "out.tex")

	require.NoError(t, ToolAccuracyTable(statsFile, "tbprofiler", []string{"Isoniazid"}, "val", out))
	assert.Contains(t, testutil.ReadFile(t, out), "\nIsoniazid & 1 & 0 & 0 & 0 & ")
	assert.NotContains(t, testutil.ReadFile(t, out), "Rifampicin")
}

func TestToolAccuracyTable_NoDrugs(t *testing.T) {
	statsFile := accuracyFixture(t)
	out := filepath.Join(t.TempDir(), "out.tex")

	require.NoError(t, ToolAccuracyTable(statsFile, "mykrobe", nil, "val", out))
	assert.Equal(t, "\\hline\n\\end{tabular}\n", testutil.ReadFile(t, out))
}

func TestToolAccuracyTable_MissingDrug(t *testing.T) {
	statsFile := accuracyFixture(t)
	out := filepath.Join(t.TempDir(), "out.tex")

	err := ToolAccuracyTable(statsFile, "mykrobe", []string{"Isoniazid", "Ethambutol"}, "val", out)
	require.ErrorIs(t, err, ErrMissingDrug)
	assert.Contains(t, err.Error(), "Ethambutol")

	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "no output is written on failure")
}

func TestToolAccuracyTable_DuplicateDrug(t *testing.T) {
	statsFile := testutil.NewStatsFile(t).
		WithDrugStat(testutil.DrugStat{Dataset: "val", Tool: "mykrobe", Drug: "Isoniazid"}).
		WithDrugStat(testutil.DrugStat{Dataset: "val", Tool: "mykrobe", Drug: "Rifampicin"}).
		WithDrugStat(testutil.DrugStat{Dataset: "val", Tool: "mykrobe", Drug: "Rifampicin"}).
		Write()

	// The duplicate is rejected even though it was not requested.
	err := ToolAccuracyTable(statsFile, "mykrobe", []string{"Isoniazid"}, "val", filepath.Join(t.TempDir(), "out.tex"))
	require.ErrorIs(t, err, ErrDuplicateDrug)
	assert.Contains(t, err.Error(), "Rifampicin")
}

func TestToolAccuracyTable_Idempotent(t *testing.T) {
	statsFile := accuracyFixture(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.tex")
	second := filepath.Join(dir, "second.tex")
	drugs := []string{"Isoniazid", "Rifampicin"}

	require.NoError(t, ToolAccuracyTable(statsFile, "mykrobe", drugs, "val", first))
	require.NoError(t, ToolAccuracyTable(statsFile, "mykrobe", drugs, "val", second))
	assert.Equal(t, testutil.ReadFile(t, first), testutil.ReadFile(t, second))
}

func TestConfidenceCell(t *testing.T) {
	assert.Equal(t, `$5.1$($2.0$-$9.9$\%)`, ConfidenceCell("5.1", "2.0", "9.9"))
}
