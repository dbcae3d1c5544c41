package main

import (
	"github.com/spf13/cobra"

	"soundmod/internal/build"
	"soundmod/internal/matcher"
	"soundmod/internal/report"
	"soundmod/internal/sources"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asYAML bool
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the descriptor's events and condition lists",
		Long: "Inspect prints one row per condition list. With --dir the converted files in that\n" +
			"directory are matched first so the table shows file counts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tree, err := build.LoadDescriptor(cfg, nil)
			if err != nil {
				return err
			}

			var result *matcher.Result
			if dirFlag != "" {
				dir, err := ctx.dirOrModDir(dirFlag)
				if err != nil {
					return err
				}
				names, err := sources.ListConverted(dir)
				if err != nil {
					return err
				}
				result = matcher.Match(cfg.Mod.Prefix, names, tree)
			}

			out := cmd.OutOrStdout()
			if asYAML {
				return report.WriteYAML(out, tree, result)
			}
			return report.Table(out, report.Summary(tree))
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the tree as YAML")
	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Match converted files in this directory before printing")
	return cmd
}
