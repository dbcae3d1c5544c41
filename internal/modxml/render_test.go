package modxml_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmod/internal/descriptor"
	"soundmod/internal/matcher"
	"soundmod/internal/modxml"
	"soundmod/internal/services"
)

const events = `nPlay_Hit
eVoice_Hit
shit,Crew,Default,Mode,Loud
shit_quiet
nPlay_Miss
eVoice_Miss
smiss
nPlay_Idle
eVoice_Idle
sidle
`

func matchedTree(t *testing.T) *descriptor.Tree {
	t.Helper()
	tree, err := descriptor.ParseString(events)
	require.NoError(t, err)
	matcher.Match("MOD_", []string{"MOD_hit_01.wem", "MOD_hit_02.wem", "MOD_miss_fx.wem", "MOD_other.wem"}, tree)
	return tree
}

func TestRenderDocument(t *testing.T) {
	got, err := modxml.RenderString("My Mod", matchedTree(t))
	require.NoError(t, err)

	want := strings.Join([]string{
		`<?xml version="1.0" encoding="utf-8"?>`,
		`<AudioModification.xml>`,
		"\t<AudioModification>",
		"\t\t<Name>My Mod</Name>",
		"\t\t<ExternalEvent>",
		"\t\t\t<Name>Play_Hit</Name>",
		"\t\t\t<Container>",
		"\t\t\t\t<ExternalId>Voice_Hit</ExternalId>",
		"\t\t\t\t<Name>Voice</Name>",
		"\t\t\t\t<Path>",
		"\t\t\t\t\t<StateList>",
		"\t\t\t\t\t\t<State>",
		"\t\t\t\t\t\t\t<Name>Crew</Name>",
		"\t\t\t\t\t\t\t<Value>Default</Value>",
		"\t\t\t\t\t\t</State>",
		"\t\t\t\t\t\t<State>",
		"\t\t\t\t\t\t\t<Name>Mode</Name>",
		"\t\t\t\t\t\t\t<Value>Loud</Value>",
		"\t\t\t\t\t\t</State>",
		"\t\t\t\t\t</StateList>",
		"\t\t\t\t\t<FilesList>",
		"\t\t\t\t\t\t<File>",
		"\t\t\t\t\t\t\t<Name>MOD_hit_01.wem</Name>",
		"\t\t\t\t\t\t</File>",
		"\t\t\t\t\t\t<File>",
		"\t\t\t\t\t\t\t<Name>MOD_hit_02.wem</Name>",
		"\t\t\t\t\t\t</File>",
		"\t\t\t\t\t</FilesList>",
		"\t\t\t\t</Path>",
		"\t\t\t</Container>",
		"\t\t</ExternalEvent>",
		"\t\t<ExternalEvent>",
		"\t\t\t<Name>Play_Miss</Name>",
		"\t\t\t<Container>",
		"\t\t\t\t<ExternalId>Voice_Miss</ExternalId>",
		"\t\t\t\t<Name>Voice</Name>",
		"\t\t\t\t<Path>",
		"\t\t\t\t\t<StateList/>",
		"\t\t\t\t\t<FilesList>",
		"\t\t\t\t\t\t<File>",
		"\t\t\t\t\t\t\t<Name>MOD_miss_fx.wem</Name>",
		"\t\t\t\t\t\t</File>",
		"\t\t\t\t\t</FilesList>",
		"\t\t\t\t</Path>",
		"\t\t\t</Container>",
		"\t\t</ExternalEvent>",
		"\t</AudioModification>",
		`</AudioModification.xml>`,
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderOmitsEmptyBranches(t *testing.T) {
	got, err := modxml.RenderString("Mod", matchedTree(t))
	require.NoError(t, err)

	assert.NotContains(t, got, "Play_Idle")
	assert.NotContains(t, got, "Voice_Idle")
	// shit_quiet has no files; only the hit list's Path is present.
	assert.Equal(t, 2, strings.Count(got, "<Path>"))
}

func TestRenderWithoutMatches(t *testing.T) {
	tree, err := descriptor.ParseString(events)
	require.NoError(t, err)

	got, err := modxml.RenderString("Mod", tree)
	require.NoError(t, err)
	assert.NotContains(t, got, "<ExternalEvent>")
	assert.Contains(t, got, "\t\t<Name>Mod</Name>\n")
}

func TestRenderIsIdempotent(t *testing.T) {
	tree := matchedTree(t)
	first, err := modxml.RenderString("Mod", tree)
	require.NoError(t, err)
	second, err := modxml.RenderString("Mod", tree)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderEscapesText(t *testing.T) {
	tree, err := descriptor.ParseString("nA&B\neId<1>\nsa\n")
	require.NoError(t, err)
	matcher.Match("M_", []string{"M_a.wem"}, tree)

	got, err := modxml.RenderString(`Tom's "Mod"`, tree)
	require.NoError(t, err)
	assert.Contains(t, got, "<Name>A&amp;B</Name>")
	assert.Contains(t, got, "<ExternalId>Id&lt;1&gt;</ExternalId>")
	assert.Contains(t, got, "<Name>Tom&#39;s &#34;Mod&#34;</Name>")
}

func TestRenderContainerName(t *testing.T) {
	got, err := modxml.RenderString("Mod", matchedTree(t), modxml.WithContainerName("Music"))
	require.NoError(t, err)
	assert.Contains(t, got, "\t\t\t\t<Name>Music</Name>\n")
	assert.NotContains(t, got, "<Name>Voice</Name>")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderReportsWriteErrors(t *testing.T) {
	err := modxml.Render(failingWriter{}, "Mod", matchedTree(t))
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := modxml.WriteFile(dir, "Mod", matchedTree(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, modxml.FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), modxml.Header+"\n"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileMissingDirectory(t *testing.T) {
	_, err := modxml.WriteFile(filepath.Join(t.TempDir(), "missing"), "Mod", matchedTree(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrIO)
}
