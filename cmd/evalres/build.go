package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evalrescallers/paper-tables/internal/cli"
	"github.com/evalrescallers/paper-tables/internal/common"
	"github.com/evalrescallers/paper-tables/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write every table listed in the config file",
		Long: `Write each table listed under build.tables in the config file.

Relative input and output paths are resolved against build.input_dir and
build.output_dir. Tables without a drugs list use build.drugs. The build
stops at the first failing table unless --keep-going is set.`,
		RunE: runBuild,
	}

	cmd.Flags().StringSlice("only", nil, "build only the named tables")
	cmd.Flags().Bool("keep-going", false, "continue after a table fails")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")
	addToolNameFlag(cmd)

	_ = viper.BindPFlag("build.only", cmd.Flags().Lookup("only"))
	_ = viper.BindPFlag("build.keep_going", cmd.Flags().Lookup("keep-going"))
	_ = viper.BindPFlag("build.no_progress", cmd.Flags().Lookup("no-progress"))

	return cmd
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	b, err := config.LoadBuild(viper.GetViper())
	if err != nil {
		return common.NewUserError("Invalid build configuration", err)
	}
	names, err := toolNames(cmd)
	if err != nil {
		return common.NewUserError("Invalid tool names", err)
	}
	names = b.ToolNames.Merge(names)

	jobs, err := selectJobs(b.Jobs, viper.GetStringSlice("build.only"))
	if err != nil {
		return common.NewUserError("Invalid --only selection", err)
	}
	keepGoing := viper.GetBool("build.keep_going")

	slog.Info(cli.FormatTitle("Building tables..."), "count", len(jobs))

	var progress *cli.Progress
	if !viper.GetBool("build.no_progress") {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(jobs), "Building tables...")
	}

	var (
		written []string
		failed  []error
	)
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return common.NewUserError("Build interrupted", err)
		}

		if err := runJob(job, names); err != nil {
			jobErr := fmt.Errorf("%s: %w", job.Label(), err)
			if !keepGoing {
				return common.NewUserError("Failed to build tables", jobErr)
			}
			common.LogError(err, "Table failed", common.Fields{"table": job.Label()})
			failed = append(failed, jobErr)
		} else {
			written = append(written, job.Output)
		}

		if progress != nil {
			progress.Step(job.Label())
		}
	}
	if progress != nil {
		progress.Finish()
	}

	summary := fmt.Sprintf("Tables written: %d\nTables failed: %d", len(written), len(failed))
	if len(written) > 0 {
		summary += "\n\n" + cli.FormatSubtle(strings.Join(written, "\n"))
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Build complete", summary)); err != nil {
		slog.Warn("Failed to write build summary", "error", err)
	}

	if len(failed) > 0 {
		return common.NewUserError(fmt.Sprintf("%d of %d tables failed", len(failed), len(jobs)), errors.Join(failed...))
	}
	return nil
}

// selectJobs keeps the jobs whose label is in only, preserving config order.
// An empty selection keeps every job.
func selectJobs(jobs []config.Job, only []string) ([]config.Job, error) {
	if len(only) == 0 {
		return jobs, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = false
	}

	var selected []config.Job
	for _, job := range jobs {
		if _, ok := wanted[job.Label()]; ok {
			wanted[job.Label()] = true
			selected = append(selected, job)
		}
	}

	var unknown []string
	for _, name := range only {
		if !wanted[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("no tables named %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
