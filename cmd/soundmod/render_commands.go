package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"soundmod/internal/build"
	"soundmod/internal/config"
	"soundmod/internal/report"
	"soundmod/internal/watch"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var dirFlag, outFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write mod.xml from converted files already in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			dir, err := ctx.dirOrModDir(dirFlag)
			if err != nil {
				return err
			}
			outDir := ""
			if outFlag != "" {
				if outDir, err = config.ExpandPath(outFlag); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
			}

			summary, err := build.Render(cmd.Context(), cfg, build.RenderOptions{Dir: dir, OutDir: outDir, DryRun: dryRun}, logger)
			if err != nil {
				return err
			}
			printRenderSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory holding converted .wem files (default: installed mod directory)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Directory to write mod.xml into (default: --dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match files without writing mod.xml")
	return cmd
}

func printRenderSummary(out io.Writer, summary *build.RenderSummary) {
	fmt.Fprintln(out, renderField("Directory", summary.Dir))
	fmt.Fprintln(out, renderField("Files", fmt.Sprintf("%d", len(summary.Converted))))
	if summary.DocumentPath != "" {
		fmt.Fprintln(out, renderField("Document", summary.DocumentPath))
	}
	_ = report.Unused(out, summary.Unused)
}

func newUnusedCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "unused",
		Short: "List converted files no condition list refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := ctx.dirOrModDir(dirFlag)
			if err != nil {
				return err
			}
			summary, err := build.Render(cmd.Context(), cfg, build.RenderOptions{Dir: dir, DryRun: true}, nil)
			if err != nil {
				return err
			}
			return report.Unused(cmd.OutOrStdout(), summary.Unused)
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory holding converted .wem files (default: installed mod directory)")
	return cmd
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite mod.xml whenever converted files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			dir, err := ctx.dirOrModDir(dirFlag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			render := func(runCtx context.Context, changed []string) error {
				if len(changed) > 0 {
					logger.Info("re-rendering mod document", slog.Int("changed", len(changed)))
				}
				summary, err := build.Render(runCtx, cfg, build.RenderOptions{Dir: dir}, logger)
				if err != nil {
					return err
				}
				printRenderSummary(out, summary)
				return nil
			}
			if err := render(cmd.Context(), nil); err != nil {
				return err
			}
			return watch.Watch(cmd.Context(), dir, debounce, logger, render)
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory holding converted .wem files (default: installed mod directory)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
	return cmd
}
