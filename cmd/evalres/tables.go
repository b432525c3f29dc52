package main

import (
	"fmt"
	"log/slog"

	"github.com/evalrescallers/paper-tables/internal/config"
	"github.com/evalrescallers/paper-tables/internal/report"
	"github.com/evalrescallers/paper-tables/internal/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runJob validates job and writes its table.
func runJob(job config.Job, names tools.Names) error {
	if err := job.Validate(); err != nil {
		return err
	}

	slog.Debug("Building table",
		"kind", job.Kind,
		"input", job.Input,
		"output", job.Output)

	switch job.Kind {
	case config.KindAccuracy:
		return report.ToolAccuracyTable(job.Input, job.Tool, job.Drugs, job.Dataset, job.Output)
	case config.KindMean:
		return report.MeanSensSpecTable(job.Input, job.Tools, job.Drugs, job.Dataset, job.Output)
	case config.KindRegimen:
		return report.RegimenSummaryTables(job.Input, job.Output, job.Datasets, job.Tools, names)
	default:
		return fmt.Errorf("unknown table kind %q", job.Kind)
	}
}

// toolNames combines tools.display_names from config with --tool-name flags.
func toolNames(cmd *cobra.Command) (tools.Names, error) {
	names, err := config.LoadToolNames(viper.GetViper())
	if err != nil {
		return nil, err
	}

	pairs, err := cmd.Flags().GetStringArray("tool-name")
	if err != nil {
		return nil, err
	}
	extra, err := tools.ParsePairs(pairs)
	if err != nil {
		return nil, err
	}
	return names.Merge(extra), nil
}

func addToolNameFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("tool-name", nil, "display name for a tool as id=Name (repeatable, overrides config)")
}
