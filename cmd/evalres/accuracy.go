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

func accuracyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accuracy",
		Short: "Write the per-drug accuracy table of one tool",
		Long: `Write one row per drug with TP, FP, TN, FN and the VME, ME, PPV and NPV
confidence intervals of a single tool on a single dataset.

Drugs are written in the order given. Every drug must appear exactly once
for the tool and dataset in the statistics file.`,
		Example: `  evalres accuracy --stats stats.tsv --tool mykrobe --dataset validation \
    --drugs Isoniazid,Rifampicin,Ethambutol --out mykrobe.tex`,
		RunE: runAccuracy,
	}

	cmd.Flags().String("stats", "", "per-drug statistics TSV file")
	cmd.Flags().String("tool", "", "tool identifier")
	cmd.Flags().String("dataset", "", "dataset identifier")
	cmd.Flags().StringSlice("drugs", nil, "drugs in table order")
	cmd.Flags().StringP("out", "o", "", "output .tex file")

	_ = viper.BindPFlag("accuracy.stats", cmd.Flags().Lookup("stats"))
	_ = viper.BindPFlag("accuracy.tool", cmd.Flags().Lookup("tool"))
	_ = viper.BindPFlag("accuracy.dataset", cmd.Flags().Lookup("dataset"))
	_ = viper.BindPFlag("accuracy.drugs", cmd.Flags().Lookup("drugs"))
	_ = viper.BindPFlag("accuracy.out", cmd.Flags().Lookup("out"))

	return cmd
}

func runAccuracy(cmd *cobra.Command, _ []string) error {
	job := config.Job{
		Kind:    config.KindAccuracy,
		Input:   config.ExpandPath(viper.GetString("accuracy.stats")),
		Output:  config.ExpandPath(viper.GetString("accuracy.out")),
		Tool:    viper.GetString("accuracy.tool"),
		Dataset: viper.GetString("accuracy.dataset"),
		Drugs:   viper.GetStringSlice("accuracy.drugs"),
	}

	if err := runJob(job, nil); err != nil {
		return common.NewUserError("Failed to write accuracy table", err)
	}

	slog.Info("Wrote accuracy table",
		"tool", job.Tool,
		"dataset", job.Dataset,
		"drugs", len(job.Drugs))
	_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+job.Output))
	return err
}
