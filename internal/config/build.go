package config

import (
	"errors"
	"fmt"

	"github.com/evalrescallers/paper-tables/internal/common"
	"github.com/evalrescallers/paper-tables/internal/tools"
	"github.com/spf13/viper"
)

// TableKind selects which table a job renders.
type TableKind string

// Table kinds.
const (
	KindAccuracy TableKind = "accuracy"
	KindMean     TableKind = "mean"
	KindRegimen  TableKind = "regimen"
)

// Job describes one table to build.
type Job struct {
	Name     string    `mapstructure:"name"`
	Kind     TableKind `mapstructure:"kind"`
	Input    string    `mapstructure:"input"`
	Output   string    `mapstructure:"output"`
	Dataset  string    `mapstructure:"dataset"`
	Datasets []string  `mapstructure:"datasets"`
	Tool     string    `mapstructure:"tool"`
	Tools    []string  `mapstructure:"tools"`
	Drugs    []string  `mapstructure:"drugs"`
}

// Label returns the job's name, or its output path when unnamed.
func (j Job) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Output
}

// Validate checks that the fields the job's kind needs are set.
func (j Job) Validate() error {
	var errs []error
	require := func(ok bool, field string) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s is required for %s tables", field, j.Kind))
		}
	}

	require(j.Input != "", "input")
	require(j.Output != "", "output")

	switch j.Kind {
	case KindAccuracy:
		require(j.Tool != "", "tool")
		require(j.Dataset != "", "dataset")
		require(len(j.Drugs) > 0, "drugs")
	case KindMean:
		require(len(j.Tools) > 0, "tools")
		require(j.Dataset != "", "dataset")
		require(len(j.Drugs) > 0, "drugs")
	case KindRegimen:
		require(len(j.Tools) > 0, "tools")
		require(len(j.Datasets) > 0, "datasets")
	default:
		errs = append(errs, fmt.Errorf("unknown table kind %q", j.Kind))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: table %q: %w", common.ErrInvalidConfig, j.Label(), errors.Join(errs...))
	}
	return nil
}

// Build is the configuration of the build command.
type Build struct {
	// InputDir and OutputDir anchor relative job paths.
	InputDir  string
	OutputDir string
	Jobs      []Job
	ToolNames tools.Names
}

// LoadToolNames reads the tools.display_names list. Identifiers are kept as
// a list of id/name pairs because viper lower-cases map keys.
func LoadToolNames(v *viper.Viper) (tools.Names, error) {
	var entries []tools.Entry
	if err := v.UnmarshalKey("tools.display_names", &entries); err != nil {
		return nil, fmt.Errorf("%w: tools.display_names: %w", common.ErrInvalidConfig, err)
	}
	names, err := tools.FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return names, nil
}

// LoadBuild reads and validates build.* settings. Jobs without drugs inherit
// build.drugs; relative paths are resolved against build.input_dir and
// build.output_dir.
func LoadBuild(v *viper.Viper) (*Build, error) {
	var jobs []Job
	if err := v.UnmarshalKey("build.tables", &jobs); err != nil {
		return nil, fmt.Errorf("%w: build.tables: %w", common.ErrInvalidConfig, err)
	}
	if len(jobs) == 0 {
		return nil, common.ErrNoTables
	}

	names, err := LoadToolNames(v)
	if err != nil {
		return nil, err
	}

	b := &Build{
		InputDir:  ExpandPath(v.GetString("build.input_dir")),
		OutputDir: ExpandPath(v.GetString("build.output_dir")),
		ToolNames: names,
	}
	defaultDrugs := v.GetStringSlice("build.drugs")

	for _, j := range jobs {
		if len(j.Drugs) == 0 {
			j.Drugs = defaultDrugs
		}
		j.Input = ResolvePath(b.InputDir, j.Input)
		j.Output = ResolvePath(b.OutputDir, j.Output)
		if err := j.Validate(); err != nil {
			return nil, err
		}
		b.Jobs = append(b.Jobs, j)
	}

	return b, nil
}
