package stats

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader_RequiredColumns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		required []string
		wantErr  error
	}{
		{
			name:     "all present",
			input:    "Dataset\tTool\tDrug\n",
			required: []string{ColDataset, ColTool, ColDrug},
		},
		{
			name:     "missing column",
			input:    "Dataset\tTool\n",
			required: []string{ColDataset, ColTool, ColDrug},
			wantErr:  ErrMissingColumn,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input), tt.required...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestReader_Next(t *testing.T) {
	input := "Dataset\tTool\tDrug\tTP\n" +
		"d1\tmykrobe\tIsoniazid\t12\n" +
		"d1\ttbprofiler\tRifampicin\n" +
		"\n" +
		"d2\tmykrobe\t\"Ethambutol\"\t3\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Dataset", "Tool", "Drug", "TP"}, r.Header())

	var got []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}

	want := []Record{
		{"Dataset": "d1", "Tool": "mykrobe", "Drug": "Isoniazid", "TP": "12"},
		{"Dataset": "d1", "Tool": "tbprofiler", "Drug": "Rifampicin", "TP": ""},
		{"Dataset": "d2", "Tool": "mykrobe", "Drug": "Ethambutol", "TP": "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_Int(t *testing.T) {
	rec := Record{"TP": "42", "FP": "n/a"}

	v, err := rec.Int("TP")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = rec.Int("FP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column FP")

	_, err = rec.Int("TN")
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Tool\tCount\na\t1\nb\t2\n"), 0o600))

	var tools []string
	err := ReadFile(path, []string{ColTool}, func(rec Record) error {
		tools = append(tools, rec.Get(ColTool))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tools)

	t.Run("callback error stops iteration", func(t *testing.T) {
		stop := errors.New("stop")
		calls := 0
		err := ReadFile(path, nil, func(Record) error {
			calls++
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 1, calls)
	})

	t.Run("missing file", func(t *testing.T) {
		err := ReadFile(filepath.Join(t.TempDir(), "nope.tsv"), nil, func(Record) error { return nil })
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing column names the file", func(t *testing.T) {
		err := ReadFile(path, []string{ColDrug}, func(Record) error { return nil })
		assert.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), path)
	})
}
