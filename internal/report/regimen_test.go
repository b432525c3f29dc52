package report

import (
	"path/filepath"
	"testing"

	"github.com/evalrescallers/paper-tables/internal/metrics"
	"github.com/evalrescallers/paper-tables/internal/testutil"
	"github.com/evalrescallers/paper-tables/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegimenCorrect(t *testing.T) {
	tests := []struct {
		name      string
		truth     string
		called    string
		ambiguous string
		want      bool
	}{
		{"exact match", "3", "3", ".", true},
		{"10 as 11 with ambiguous H", "10", "11", "H", true},
		{"10 as 11 without ambiguity", "10", "11", ".", false},
		{"10 as 12 with ambiguous H and Mfx", "10", "12", "H,Mfx", true},
		{"10 as 12 with only H", "10", "12", "H", false},
		{"10 as 12 with only Mfx", "10", "12", "Mfx", false},
		{"11 as 12 with ambiguous Mfx", "11", "12", "Mfx", true},
		{"11 as 12 without ambiguity", "11", "12", "NA", false},
		{"11 as 10 is never tolerated", "11", "10", "H,Mfx", false},
		{"12 as 11 is never tolerated", "12", "11", "H,Mfx", false},
		{"other mismatch", "1", "2", "H,Mfx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RegimenCorrect(tt.truth, tt.called, ParseAmbiguity(tt.ambiguous))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmbiguity(t *testing.T) {
	assert.Empty(t, ParseAmbiguity("."))
	assert.Empty(t, ParseAmbiguity("NA"))
	assert.Equal(t, map[string]struct{}{"H": {}, "Mfx": {}}, ParseAmbiguity("H,Mfx"))
}

func regimenFixture(t *testing.T) string {
	t.Helper()
	return testutil.NewRegimenFile(t).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "mykrobe", Truth: "1", Ambiguous: ".", Called: "1", Count: 5}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "mykrobe", Truth: "10", Ambiguous: "H", Called: "11", Count: 2}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "mykrobe", Truth: "10", Ambiguous: "NA", Called: "11", Count: 1}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "mykrobe", Truth: "11", Ambiguous: "Mfx", Called: "12", Count: 3}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "mykrobe", Truth: "NA", Ambiguous: ".", Called: "1", Count: 100}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d2", Tool: "mykrobe", Truth: "1", Ambiguous: ".", Called: "2", Count: 100}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "kvarq", Truth: "1", Ambiguous: ".", Called: "2", Count: 100}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "tbp", Truth: "10", Ambiguous: "H,Mfx", Called: "12", Count: 4}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "tbp", Truth: "2", Ambiguous: ".", Called: "3", Count: 1}).
		WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "tbp", Truth: "2", Ambiguous: ".", Called: "2", Count: 2}).
		Write()
}

var regimenNames = tools.Names{"mykrobe": "Mykrobe", "tbp": "TB-Profiler"}

func TestTallyRegimens(t *testing.T) {
	counts, err := TallyRegimens(regimenFixture(t), []string{"d1"}, []string{"tbp", "mykrobe"})
	require.NoError(t, err)
	require.Len(t, counts, 2)

	mykrobe := counts["mykrobe"]
	assert.Equal(t, Tally{Right: 10, Wrong: 1}, mykrobe.Tally)
	assert.Equal(t, Tally{Right: 5}, mykrobe.Breakdown[0])
	assert.Equal(t, Tally{Right: 2, Wrong: 1}, mykrobe.Breakdown[9])
	assert.Equal(t, Tally{Right: 3}, mykrobe.Breakdown[10])
	assert.Equal(t, Tally{}, mykrobe.Breakdown[11])

	tbp := counts["tbp"]
	assert.Equal(t, Tally{Right: 6, Wrong: 1}, tbp.Tally)
	assert.Equal(t, Tally{Right: 2, Wrong: 1}, tbp.Breakdown[1])
}

func TestRegimenSummaryTables(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regimens.tex")

	err := RegimenSummaryTables(regimenFixture(t), out, []string{"d1"}, []string{"tbp", "mykrobe"}, regimenNames)
	require.NoError(t, err)

	want := `\begin{tabular}{lrrr}
Tool & Correct regimen & Incorrect regimen & Percent correct \\
\hline
Mykrobe & 10 & 1 & 90.9 \\
TB-Profiler & 6 & 1 & 85.7 \\
\hline
\end{tabular}



\begin{tabular}{lrrrrrrrrrrrr}
Tool & 1 & 2 & 3 & 4 & 5 & 6 & 7 & 8 & 9 & 10 & 11 & 12\\
\hline
Mykrobe & 100.0 & 0 & 0 & 0 & 0 & 0 & 0 & 0 & 0 & 66.7 & 100.0 & 0 \\
TB-Profiler & 0 & 66.7 & 0 & 0 & 0 & 0 & 0 & 0 & 0 & 100.0 & 0 & 0 \\
\hline
\end{tabular}
`
	assert.Equal(t, want, testutil.ReadFile(t, out))
}

func TestRegimenSummaryTables_Errors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "regimens.tex")

	t.Run("tool without display name", func(t *testing.T) {
		err := RegimenSummaryTables(regimenFixture(t), out, []string{"d1"}, []string{"mykrobe", "kvarq"}, regimenNames)
		assert.ErrorIs(t, err, tools.ErrUnknownTool)
	})

	t.Run("tool without records", func(t *testing.T) {
		names := regimenNames.Merge(tools.Names{"ariba": "ARIBA"})
		err := RegimenSummaryTables(regimenFixture(t), out, []string{"d1"}, []string{"mykrobe", "ariba"}, names)
		require.ErrorIs(t, err, metrics.ErrZeroDenominator)
		assert.Contains(t, err.Error(), "ariba")
	})

	t.Run("regimen out of range", func(t *testing.T) {
		summary := testutil.NewRegimenFile(t).
			WithRegimenCall(testutil.RegimenCall{Dataset: "d1", Tool: "mykrobe", Truth: "13", Ambiguous: ".", Called: "13", Count: 1}).
			Write()
		err := RegimenSummaryTables(summary, out, []string{"d1"}, []string{"mykrobe"}, regimenNames)
		assert.ErrorIs(t, err, ErrUnknownRegimen)
	})
}

func TestRegimenSummaryTables_Idempotent(t *testing.T) {
	summary := regimenFixture(t)
	dir := t.TempDir()
	run := func(name string) string {
		out := filepath.Join(dir, name)
		require.NoError(t, RegimenSummaryTables(summary, out, []string{"d1", "d2"}, []string{"mykrobe", "tbp"}, regimenNames))
		return testutil.ReadFile(t, out)
	}

	assert.Equal(t, run("a.tex"), run("b.tex"))
}
