package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"soundmod/internal/build"
	"soundmod/internal/report"
	"soundmod/internal/stageexec"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts build.Options

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rename, convert, deploy and describe the mod's sound files",
		Long: "Build runs the whole pipeline: prefix relevant source files, convert them with WwiseCLI,\n" +
			"copy the converted files into the game's mod directory and write mod.xml there.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			builder, err := build.New(cfg, build.WithLogger(logger))
			if err != nil {
				return err
			}

			summary, runErr := builder.Run(cmd.Context(), opts)
			out := cmd.OutOrStdout()
			if summary != nil {
				printBuildSummary(out, summary, opts, shouldColorize(out))
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&opts.SkipConvert, "skip-convert", false, "Deploy already converted files without running WwiseCLI")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would change without touching any file")
	return cmd
}

func printBuildSummary(out io.Writer, summary *build.Summary, opts build.Options, colorize bool) {
	title := "Build"
	if opts.DryRun {
		title = "Build (dry run)"
	}
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderField("Build ID", summary.BuildID))
	if summary.Version != "" {
		fmt.Fprintln(out, renderField("Game version", summary.Version))
	}
	if summary.TargetDir != "" {
		fmt.Fprintln(out, renderField("Mod directory", summary.TargetDir))
	}

	renamed := fmt.Sprintf("%d file(s)", len(summary.Renamed))
	if opts.DryRun {
		renamed = fmt.Sprintf("%d planned", len(summary.Renamed))
	}
	fmt.Fprintln(out, renderField("Renamed", renamed))
	if opts.DryRun {
		for _, rename := range summary.Renamed {
			fmt.Fprintf(out, "%s  %s -> %s\n", statusIndent, rename.From, rename.To)
		}
	}
	fmt.Fprintln(out, renderField("Sources", strconv.Itoa(len(summary.Selected))))
	if summary.Conversion.Lines > 0 || summary.ConvertErr != nil {
		kind, message := statusOK, fmt.Sprintf("%d warning(s) in %s", len(summary.Conversion.Warnings), summary.Conversion.Duration.Round(time.Second))
		if summary.ConvertErr != nil {
			kind, message = statusWarn, summary.ConvertErr.Error()
		}
		fmt.Fprintln(out, renderStatusLine("Conversion", kind, message, colorize))
	}
	if len(summary.Deployed.Copied) > 0 || len(summary.Deployed.Failed) > 0 {
		kind := statusOK
		if len(summary.Deployed.Failed) > 0 {
			kind = statusWarn
		}
		message := fmt.Sprintf("%d copied, %d failed", len(summary.Deployed.Copied), len(summary.Deployed.Failed))
		fmt.Fprintln(out, renderStatusLine("Deploy", kind, message, colorize))
	}
	if summary.DocumentPath != "" {
		fmt.Fprintln(out, renderField("Document", summary.DocumentPath))
	}
	if summary.LogPath != "" {
		fmt.Fprintln(out, renderField("Build log", summary.LogPath))
	}
	for _, problem := range summary.Problems() {
		fmt.Fprintln(out, renderStatusLine("Problem", statusWarn, problem.Error(), colorize))
	}

	if len(summary.Stages) > 0 {
		rows := make([][]string, 0, len(summary.Stages))
		for _, timing := range summary.Stages {
			status := "ok"
			if timing.Err != nil {
				status = "failed"
			}
			rows = append(rows, []string{stageexec.Label(timing.Stage), status, formatDuration(timing.Duration)})
		}
		fmt.Fprintln(out, renderTable([]string{"Stage", "Status", "Duration"}, rows, 2))
	}

	_ = report.Unused(out, summary.Unused)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
