package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"soundmod/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var buildID string
	var lines int
	var raw bool
	var list bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log of the latest or a given build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				entries, err := logs.List(cfg.Paths.LogDir)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.BuildID,
						entry.ModTime.Format("2006-01-02 15:04:05"),
						strconv.FormatInt(entry.Size, 10),
						entry.Path,
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Build", "Modified", "Bytes", "Path"}, rows, 2))
				return nil
			}

			entry, err := logs.Find(cfg.Paths.LogDir, buildID)
			if err != nil {
				return err
			}
			tail, err := logs.Tail(entry.Path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				if !raw {
					if rec, ok := logs.ParseRecord(line); ok {
						line = rec.String()
					}
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&buildID, "build", "b", "", "Build id or prefix (default: latest build)")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the JSON lines unchanged")
	cmd.Flags().BoolVar(&list, "list", false, "List the build logs instead of printing one")
	return cmd
}
