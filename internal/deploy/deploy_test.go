package deploy_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmod/internal/deploy"
	"soundmod/internal/services"
	"soundmod/internal/testsupport"
)

func TestCopyConvertedCopiesOnlyWem(t *testing.T) {
	from := t.TempDir()
	to := filepath.Join(t.TempDir(), "bin", "1", "res_mods", "banks", "mods", "Mod")
	testsupport.WriteFile(t, filepath.Join(from, "a.wem"), 10)
	testsupport.WriteFile(t, filepath.Join(from, "b.wem"), 20)
	testsupport.WriteFile(t, filepath.Join(from, "MySources.xml"), 5)

	for _, verify := range []bool{false, true} {
		report, err := deploy.CopyConverted(context.Background(), from, to, deploy.Options{Workers: 2, Verify: verify}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.wem", "b.wem"}, report.Copied)
		assert.Equal(t, int64(30), report.Bytes)
		assert.Empty(t, report.Failed)
	}
	assert.FileExists(t, filepath.Join(to, "a.wem"))
	assert.NoFileExists(t, filepath.Join(to, "MySources.xml"))
}

func TestCopyConvertedOverwrites(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()
	testsupport.WriteText(t, filepath.Join(from, "a.wem"), "new")
	testsupport.WriteText(t, filepath.Join(to, "a.wem"), "older content")

	_, err := deploy.CopyConverted(context.Background(), from, to, deploy.Options{}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(to, "a.wem"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCopyConvertedCollectsFailures(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()
	testsupport.WriteText(t, filepath.Join(from, "a.wem"), "a")
	testsupport.WriteText(t, filepath.Join(from, "b.wem"), "b")
	// A directory in place of the target file makes that copy fail.
	require.NoError(t, os.Mkdir(filepath.Join(to, "a.wem"), 0o755))

	report, err := deploy.CopyConverted(context.Background(), from, to, deploy.Options{Workers: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.wem"}, report.Copied)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Error(), "a.wem")
}

func TestCopyConvertedMissingSource(t *testing.T) {
	_, err := deploy.CopyConverted(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir(), deploy.Options{}, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCopyConvertedCancelled(t *testing.T) {
	from := t.TempDir()
	testsupport.WriteText(t, filepath.Join(from, "a.wem"), "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := deploy.CopyConverted(ctx, from, t.TempDir(), deploy.Options{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemoveTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Windows")
	testsupport.WriteText(t, filepath.Join(dir, "x.wem"), "x")
	require.NoError(t, deploy.RemoveTemp(dir))
	assert.NoDirExists(t, dir)
	require.NoError(t, deploy.RemoveTemp(dir))
}
