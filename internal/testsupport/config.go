package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"soundmod/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// DefaultVersion is the client version written into the fake preferences file.
const DefaultVersion = "7234567"

// NewConfig produces a config backed by a fake game install and source
// directory under a per-test temp dir. The game directory carries a
// preferences.xml announcing DefaultVersion.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.GameDir = filepath.Join(base, "game")
	cfgVal.Paths.SourceDir = filepath.Join(base, "sources")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Mod.Caption = "Test Mod"
	cfgVal.Mod.Directory = "TestMod"
	cfgVal.Mod.Prefix = "TM_"
	cfgVal.Wwise.CLIPath = filepath.Join(base, "bin", "WwiseCLI.exe")
	cfgVal.Wwise.ProjectPath = filepath.Join(base, "project", "Project.wproj")

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, dir := range []string{cfgVal.Paths.GameDir, cfgVal.Paths.SourceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	WithGameVersion(DefaultVersion)(builder)

	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithPrefix overrides the mod filename prefix.
func WithPrefix(prefix string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mod.Prefix = config.NormalizePrefix(prefix)
	}
}

// WithGameVersion rewrites the fake preferences.xml with version.
func WithGameVersion(version string) ConfigOption {
	return func(b *configBuilder) {
		body := "<preferences.xml>\n\t<scriptsPreferences>\n" +
			"\t\t<last_server_version>\t0,12,3,0," + version + "\t</last_server_version>\n" +
			"\t</scriptsPreferences>\n</preferences.xml>\n"
		if err := os.WriteFile(b.cfg.PreferencesPath(), []byte(body), 0o644); err != nil {
			b.t.Fatalf("write preferences: %v", err)
		}
	}
}

// WithWwiseStubs creates placeholder WwiseCLI and project files so that
// preflight checks for conversion pass. The CLI file is an executable shell
// script that exits successfully.
func WithWwiseStubs() ConfigOption {
	return func(b *configBuilder) {
		WriteExecutable(b.t, b.cfg.Wwise.CLIPath, "#!/bin/sh\nexit 0\n")
		WriteText(b.t, b.cfg.Wwise.ProjectPath, "<WwiseDocument/>\n")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.GameDir)
}
