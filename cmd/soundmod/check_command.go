package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soundmod/internal/preflight"
	"soundmod/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var skipConvert bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify paths, game version and WwiseCLI before building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			if ctx.configPath != "" {
				fmt.Fprintln(out, renderField("Config", ctx.configPath))
			}
			failures := 0
			if err := cfg.RequireBuild(!skipConvert); err != nil {
				fmt.Fprintln(out, renderStatusLine("Configuration", statusError, err.Error(), colorize))
				failures++
			}

			results := preflight.RunAll(cfg, !skipConvert)
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			failures += len(preflight.Failed(results))
			if failures > 0 {
				return services.Wrap(services.ErrValidation, "check", "", fmt.Sprintf("%d check(s) failed", failures), nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipConvert, "skip-convert", false, "Skip the WwiseCLI and project checks")
	return cmd
}
