package main

import (
	"fmt"
	"log/slog"

	"github.com/evalrescallers/paper-tables/internal/cli"
	"github.com/evalrescallers/paper-tables/internal/common"
	"github.com/evalrescallers/paper-tables/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func regimensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regimens",
		Short: "Write the regimen prediction summary tables",
		Long: `Count correct and incorrect regimen calls per tool, weighted by sample
count, and write two tables: overall percent correct, and percent correct for
each truth regimen 1 to 12.

Tools are labelled with their display names from tools.display_names in the
config file or from --tool-name flags.`,
		Example: `  evalres regimens --summary regimen_summary.tsv --datasets validation,test \
    --tools mykrobe,tb-profiler --tool-name mykrobe=Mykrobe \
    --tool-name tb-profiler=TB-Profiler --out regimens.tex`,
		RunE: runRegimens,
	}

	cmd.Flags().String("summary", "", "regimen summary TSV file")
	cmd.Flags().StringSlice("datasets", nil, "dataset identifiers")
	cmd.Flags().StringSlice("tools", nil, "tool identifiers")
	cmd.Flags().StringP("out", "o", "", "output .tex file")
	addToolNameFlag(cmd)

	_ = viper.BindPFlag("regimens.summary", cmd.Flags().Lookup("summary"))
	_ = viper.BindPFlag("regimens.datasets", cmd.Flags().Lookup("datasets"))
	_ = viper.BindPFlag("regimens.tools", cmd.Flags().Lookup("tools"))
	_ = viper.BindPFlag("regimens.out", cmd.Flags().Lookup("out"))

	return cmd
}

func runRegimens(cmd *cobra.Command, _ []string) error {
	names, err := toolNames(cmd)
	if err != nil {
		return common.NewUserError("Invalid tool names", err)
	}

	job := config.Job{
		Kind:     config.KindRegimen,
		Input:    config.ExpandPath(viper.GetString("regimens.summary")),
		Output:   config.ExpandPath(viper.GetString("regimens.out")),
		Datasets: viper.GetStringSlice("regimens.datasets"),
		Tools:    viper.GetStringSlice("regimens.tools"),
	}

	if err := runJob(job, names); err != nil {
		return common.NewUserError("Failed to write regimen tables", err)
	}

	slog.Info("Wrote regimen tables",
		"datasets", job.Datasets,
		"tools", len(job.Tools))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+job.Output))
	return err
}
