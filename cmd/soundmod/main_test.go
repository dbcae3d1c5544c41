package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soundmod/internal/config"
	"soundmod/internal/gameinfo"
	"soundmod/internal/modxml"
	"soundmod/internal/report"
	"soundmod/internal/services"
	"soundmod/internal/testsupport"
)

const cliDescriptor = "nPlay_Hit\neVoice_Hit\nshit,Crew,Default\nnPlay_Miss\neVoice_Miss\nsmiss\n"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NO_COLOR", "1")
	t.Chdir(t.TempDir())

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Mod.Descriptor = filepath.Join(testsupport.BaseDir(cfg), "descriptor.txt")
	testsupport.WriteText(t, cfg.Mod.Descriptor, cliDescriptor)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "soundmod.toml")
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func (e *cliTestEnv) modDir() string {
	return gameinfo.ModTargetDir(e.cfg.Paths.GameDir, testsupport.DefaultVersion, e.cfg.Mod.Directory)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestBuildSkipConvert(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.cfg.Paths.SourceDir, "hit_1.wav")
	testsupport.Touch(t, env.cfg.TempDir(), "TM_hit_1.wem", "TM_extra.wem")

	out, _, err := runCLI(t, []string{"build", "--skip-convert"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "  Build\n=========\n")
	requireContains(t, out, "2 copied, 0 failed")
	requireContains(t, out, "Render")
	requireContains(t, out, report.UnusedHeader+"\nTM_extra.wem\n")

	doc, err := os.ReadFile(filepath.Join(env.modDir(), modxml.FileName))
	if err != nil {
		t.Fatalf("read mod.xml: %v", err)
	}
	requireContains(t, string(doc), "<Name>TM_hit_1.wem</Name>")
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.SourceDir, "TM_hit_1.wav")); err != nil {
		t.Fatalf("source was not renamed: %v", err)
	}
}

func TestBuildDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.cfg.Paths.SourceDir, "miss.wav")

	out, _, err := runCLI(t, []string{"build", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("build --dry-run: %v", err)
	}
	requireContains(t, out, "Build (dry run)")
	requireContains(t, out, "1 planned")
	requireContains(t, out, "miss.wav -> TM_miss.wav")
	if _, err := os.Stat(env.modDir()); !os.IsNotExist(err) {
		t.Fatalf("dry run created the mod directory: %v", err)
	}
}

func TestBuildMissingWwiseFailsValidation(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected build to fail without WwiseCLI")
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2 (%v)", code, err)
	}
}

func TestRenderAndUnusedCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := t.TempDir()
	out := t.TempDir()
	testsupport.Touch(t, dir, "TM_miss_01.wem", "TM_orphan.wem")

	stdout, _, err := runCLI(t, []string{"render", "--dir", dir, "--out", out}, env.configPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, stdout, filepath.Join(out, modxml.FileName))
	if _, err := os.Stat(filepath.Join(out, modxml.FileName)); err != nil {
		t.Fatalf("mod.xml missing: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"unused", "--dir", dir}, env.configPath)
	if err != nil {
		t.Fatalf("unused: %v", err)
	}
	if stdout != report.UnusedHeader+"\nTM_orphan.wem\n" {
		t.Fatalf("unexpected unused output: %q", stdout)
	}
}

func TestRenderDefaultsToModDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.modDir(), "TM_hit.wem")

	if _, _, err := runCLI(t, []string{"render"}, env.configPath); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.modDir(), modxml.FileName)); err != nil {
		t.Fatalf("mod.xml not written into the mod directory: %v", err)
	}
}

func TestInspect(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"inspect"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Play_Hit")
	requireContains(t, out, "2 lists")

	dir := t.TempDir()
	testsupport.Touch(t, dir, "TM_hit_2.wem")
	out, _, err = runCLI(t, []string{"inspect", "--yaml", "--dir", dir}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --yaml: %v", err)
	}
	requireContains(t, out, "name: Play_Hit")
	requireContains(t, out, "- TM_hit_2.wem")
}

func TestCheck(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail without WwiseCLI stubs")
	}
	requireContains(t, out, "[ERROR]")

	out, _, err = runCLI(t, []string{"check", "--skip-convert"}, env.configPath)
	if err != nil {
		t.Fatalf("check --skip-convert: %v", err)
	}
	requireContains(t, out, "Game version")
	requireContains(t, out, "[OK]")
}

func TestCheckPassesWithStubs(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithWwiseStubs())

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected failure in %q", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected config init to refuse an existing file")
	}
}

func TestConfigImport(t *testing.T) {
	setupCLITestEnv(t)
	dir := t.TempDir()
	ini := filepath.Join(dir, "config.ini")
	testsupport.WriteText(t, ini, "GAME_PATH=/games/wows\nMOD_CAPTION=Imported\nMOD_PREFIX=IM\n")
	target := filepath.Join(dir, "soundmod.toml")

	out, _, err := runCLI(t, []string{"config", "import", ini, "--path", target}, "")
	if err != nil {
		t.Fatalf("config import: %v", err)
	}
	requireContains(t, out, "Imported "+ini)
	requireContains(t, out, "Warning: SOURCE_DIRECTORY was missing or empty")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read imported config: %v", err)
	}
	requireContains(t, string(data), "IM_")
}

func TestHelpSkipsConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	out, _, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("root help: %v", err)
	}
	requireContains(t, out, "soundmod")
}

func TestLogsShowsLatestBuild(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.Touch(t, env.cfg.TempDir(), "TM_hit_1.wem")
	if _, _, err := runCLI(t, []string{"build", "--skip-convert"}, env.configPath); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "--lines", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "build finished")
	requireContains(t, out, "(render)")

	out, _, err = runCLI(t, []string{"logs", "--list"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --list: %v", err)
	}
	requireContains(t, out, "build-")
}
