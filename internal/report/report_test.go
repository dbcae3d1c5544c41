package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"soundmod/internal/descriptor"
	"soundmod/internal/matcher"
	"soundmod/internal/report"
)

func matched(t *testing.T) (*descriptor.Tree, *matcher.Result) {
	t.Helper()
	tree, err := descriptor.ParseString("nPlay_Hit\neVoice_Hit\nshit,Crew,Default\nnPlay_Miss\nsmiss\n")
	require.NoError(t, err)
	result := matcher.Match("M_", []string{"M_hit_1.wem", "M_stray.wem", "M_hit_2.wem"}, tree)
	return tree, result
}

func TestUnusedListsEachLeftoverOnce(t *testing.T) {
	_, result := matched(t)

	var buf bytes.Buffer
	require.NoError(t, report.Unused(&buf, result.Unused()))
	assert.Equal(t, report.UnusedHeader+"\nM_stray.wem\n", buf.String())
	assert.Equal(t, 1, strings.Count(buf.String(), "M_stray.wem"))
	assert.NotContains(t, buf.String(), "M_hit_1.wem")
}

func TestUnusedPrintsNothingWhenAllUsed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Unused(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestSummaryAndTable(t *testing.T) {
	tree, _ := matched(t)
	rows := report.Summary(tree)
	require.Equal(t, []report.Row{
		{Event: "Play_Hit", ExternalID: "Voice_Hit", Prefix: "hit", States: 1, Files: 2},
		{Event: "Play_Miss", Prefix: "miss"},
	}, rows)

	var buf bytes.Buffer
	require.NoError(t, report.Table(&buf, rows))
	out := buf.String()
	assert.Contains(t, out, "Play_Hit")
	assert.Contains(t, strings.ToLower(out), "2 lists")
}

func TestWriteYAML(t *testing.T) {
	tree, result := matched(t)

	var buf bytes.Buffer
	require.NoError(t, report.WriteYAML(&buf, tree, result))

	var decoded struct {
		Events []struct {
			Name  string `yaml:"name"`
			Lists []struct {
				Prefix string   `yaml:"prefix"`
				Files  []string `yaml:"files"`
			} `yaml:"lists"`
		} `yaml:"events"`
		Unused []string `yaml:"unused"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Events, 2)
	assert.Equal(t, []string{"M_hit_1.wem", "M_hit_2.wem"}, decoded.Events[0].Lists[0].Files)
	assert.Empty(t, decoded.Events[1].Lists[0].Files)
	assert.Equal(t, []string{"M_stray.wem"}, decoded.Unused)
}
