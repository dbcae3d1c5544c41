package sources_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmod/internal/descriptor"
	"soundmod/internal/services"
	"soundmod/internal/sources"
	"soundmod/internal/testsupport"
)

func tree(t *testing.T) *descriptor.Tree {
	t.Helper()
	tr, err := descriptor.ParseString("nPlay_Hit\neVoice_Hit\nshit,Crew,Default\nnPlay_Miss\nsmiss\n")
	require.NoError(t, err)
	return tr
}

func TestPlanRenames(t *testing.T) {
	names := []string{"hit_1.wav", "TM_hit_2.wav", "miss.WAV", "other.wav", "hit_3.wem"}
	plan := sources.PlanRenames(names, "TM_", tree(t))
	assert.Equal(t, []sources.Rename{
		{From: "hit_1.wav", To: "TM_hit_1.wav"},
		{From: "miss.WAV", To: "TM_miss.WAV"},
	}, plan)
}

func TestNormalizeNamesRenamesAndSkipsConflicts(t *testing.T) {
	dir := t.TempDir()
	testsupport.Touch(t, dir, "hit_1.wav", "miss_1.wav", "TM_miss_1.wav", "readme.txt")

	applied, failed, err := sources.NormalizeNames(dir, "TM_", tree(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []sources.Rename{{From: "hit_1.wav", To: "TM_hit_1.wav"}}, applied)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Error(), "already exists")

	assert.FileExists(t, filepath.Join(dir, "TM_hit_1.wav"))
	assert.NoFileExists(t, filepath.Join(dir, "hit_1.wav"))
	assert.FileExists(t, filepath.Join(dir, "miss_1.wav"))
	assert.FileExists(t, filepath.Join(dir, "readme.txt"))
}

func TestNormalizeNamesMissingDir(t *testing.T) {
	_, _, err := sources.NormalizeNames(filepath.Join(t.TempDir(), "missing"), "TM_", tree(t), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrIO))
}

func TestConversionList(t *testing.T) {
	dir := t.TempDir()
	testsupport.Touch(t, dir, "TM_miss.wav", "TM_hit_2.wav", "hit_9.wav", "TM_unrelated.wav", "TM_hit_1.wem")

	files, err := sources.ConversionList(dir, "TM_", tree(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"TM_hit_2.wav", "TM_miss.wav"}, files)
}

func TestListConverted(t *testing.T) {
	dir := t.TempDir()
	testsupport.Touch(t, dir, "b.wem", "a.wem", "c.wav")

	names, err := sources.ListConverted(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.wem", "b.wem"}, names)

	_, err = sources.ListConverted(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRenderExternalSources(t *testing.T) {
	got := string(sources.RenderExternalSources(`C:\mods\src`, "WOWS_WEM_CONVERSION", []string{"TM_a.wav", `TM_"b".wav`}))
	want := `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
		`<ExternalSourcesList SchemaVersion="1" Root="C:\mods\src">` + "\n" +
		"\t" + `<Source Path="TM_a.wav" Conversion="WOWS_WEM_CONVERSION"/>` + "\n" +
		"\t" + `<Source Path="TM_&#34;b&#34;.wav" Conversion="WOWS_WEM_CONVERSION"/>` + "\n" +
		"</ExternalSourcesList>\n"
	assert.Equal(t, want, got)
}

func TestWriteExternalSourcesCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Windows", sources.ListFileName)
	require.NoError(t, sources.WriteExternalSources(path, "/src", "CONV", []string{"a.wav"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<Source Path="a.wav" Conversion="CONV"/>`)
}
