// Package report prints what a matching pass left behind: the unused-file
// list, a per-list summary table, and a YAML dump of the associations.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"soundmod/internal/descriptor"
	"soundmod/internal/matcher"
)

// UnusedHeader precedes the unused-file listing.
const UnusedHeader = "*** Unused files:"

// Unused prints names under UnusedHeader, one per line. Nothing is written
// when names is empty.
func Unused(w io.Writer, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, UnusedHeader); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// Row is one condition list in the summary table.
type Row struct {
	Event      string
	ExternalID string
	Prefix     string
	States     int
	Files      int
}

// Summary flattens tree into one row per condition list.
func Summary(tree *descriptor.Tree) []Row {
	if tree == nil {
		return nil
	}
	var rows []Row
	for _, event := range tree.Events {
		for _, list := range event.Lists {
			rows = append(rows, Row{
				Event:      event.Name,
				ExternalID: event.ExternalID,
				Prefix:     list.Prefix,
				States:     len(list.States),
				Files:      len(list.Files),
			})
		}
	}
	return rows
}

// Table renders rows with a totals footer.
func Table(w io.Writer, rows []Row) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Event", "External ID", "Prefix", "States", "Files"})
	files := 0
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Event, row.ExternalID, row.Prefix, row.States, row.Files})
		files += row.Files
	}
	tw.AppendFooter(table.Row{"", "", "Total", strconv.Itoa(len(rows)) + " lists", files})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

type yamlState struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type yamlList struct {
	Prefix string      `yaml:"prefix"`
	States []yamlState `yaml:"states,omitempty"`
	Files  []string    `yaml:"files,omitempty"`
}

type yamlEvent struct {
	Name       string     `yaml:"name"`
	ExternalID string     `yaml:"external_id,omitempty"`
	Lists      []yamlList `yaml:"lists"`
}

type yamlReport struct {
	Events []yamlEvent `yaml:"events"`
	Unused []string    `yaml:"unused,omitempty"`
}

// WriteYAML dumps the tree with its matched files and, when result is not
// nil, the unused candidates.
func WriteYAML(w io.Writer, tree *descriptor.Tree, result *matcher.Result) error {
	doc := yamlReport{Events: []yamlEvent{}}
	if tree != nil {
		for _, event := range tree.Events {
			ye := yamlEvent{Name: event.Name, ExternalID: event.ExternalID, Lists: []yamlList{}}
			for _, list := range event.Lists {
				yl := yamlList{Prefix: list.Prefix, Files: list.Files}
				for _, state := range list.States {
					yl.States = append(yl.States, yamlState{Name: state.Name, Value: state.Value})
				}
				ye.Lists = append(ye.Lists, yl)
			}
			doc.Events = append(doc.Events, ye)
		}
	}
	if result != nil {
		doc.Unused = result.Unused()
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
