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

func meanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mean",
		Short: "Write pooled sensitivity and specificity per tool",
		Long: `Sum TP, FP, TN and FN over the selected drugs of one dataset for each tool
and write sensitivity, specificity, VME, ME, PPV and NPV as percentages.

A tool whose pooled counts leave any rate undefined fails the command.`,
		Example: `  evalres mean --stats stats.tsv --tools mykrobe,tb-profiler \
    --drugs Isoniazid,Rifampicin --dataset validation --out mean.tex`,
		RunE: runMean,
	}

	cmd.Flags().String("stats", "", "per-drug statistics TSV file")
	cmd.Flags().StringSlice("tools", nil, "tool identifiers")
	cmd.Flags().StringSlice("drugs", nil, "drugs to pool")
	cmd.Flags().String("dataset", "", "dataset identifier")
	cmd.Flags().StringP("out", "o", "", "output .tex file")

	_ = viper.BindPFlag("mean.stats", cmd.Flags().Lookup("stats"))
	_ = viper.BindPFlag("mean.tools", cmd.Flags().Lookup("tools"))
	_ = viper.BindPFlag("mean.drugs", cmd.Flags().Lookup("drugs"))
	_ = viper.BindPFlag("mean.dataset", cmd.Flags().Lookup("dataset"))
	_ = viper.BindPFlag("mean.out", cmd.Flags().Lookup("out"))

	return cmd
}

func runMean(cmd *cobra.Command, _ []string) error {
	job := config.Job{
		Kind:    config.KindMean,
		Input:   config.ExpandPath(viper.GetString("mean.stats")),
		Output:  config.ExpandPath(viper.GetString("mean.out")),
		Tools:   viper.GetStringSlice("mean.tools"),
		Drugs:   viper.GetStringSlice("mean.drugs"),
		Dataset: viper.GetString("mean.dataset"),
	}

	if err := runJob(job, nil); err != nil {
		return common.NewUserError("Failed to write sensitivity/specificity table", err)
	}

	slog.Info("Wrote sensitivity/specificity table",
		"dataset", job.Dataset,
		"tools", len(job.Tools))
	_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+job.Output))
	return err
}
