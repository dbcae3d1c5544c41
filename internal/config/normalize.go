package config

import (
	"fmt"
	"os"
	"strings"

	"soundmod/internal/textutil"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMod()
	c.normalizeWwise()
	c.normalizeBuild()
	c.normalizeLogging()
	return nil
}

// applyEnv fills path fields left empty in the config file from the
// environment (including variables loaded from .env).
func (c *Config) applyEnv() {
	fallback := func(target *string, key string) {
		if strings.TrimSpace(*target) != "" {
			return
		}
		if value, ok := os.LookupEnv(key); ok {
			*target = strings.TrimSpace(value)
		}
	}
	fallback(&c.Paths.GameDir, "SOUNDMOD_GAME_DIR")
	fallback(&c.Paths.SourceDir, "SOUNDMOD_SOURCE_DIR")
	fallback(&c.Wwise.CLIPath, "SOUNDMOD_WWISE_CLI")
	fallback(&c.Wwise.ProjectPath, "SOUNDMOD_WWISE_PROJECT")
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.GameDir, err = expandPath(strings.TrimSpace(c.Paths.GameDir)); err != nil {
		return fmt.Errorf("paths.game_dir: %w", err)
	}
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Mod.Descriptor, err = expandPath(strings.TrimSpace(c.Mod.Descriptor)); err != nil {
		return fmt.Errorf("mod.descriptor: %w", err)
	}
	if c.Wwise.CLIPath, err = expandPath(strings.TrimSpace(c.Wwise.CLIPath)); err != nil {
		return fmt.Errorf("wwise.cli_path: %w", err)
	}
	if c.Wwise.ProjectPath, err = expandPath(strings.TrimSpace(c.Wwise.ProjectPath)); err != nil {
		return fmt.Errorf("wwise.project_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMod() {
	c.Mod.Caption = strings.TrimSpace(c.Mod.Caption)
	c.Mod.Prefix = NormalizePrefix(c.Mod.Prefix)
	c.Mod.Directory = strings.TrimSpace(c.Mod.Directory)
	if c.Mod.Directory == "" {
		c.Mod.Directory = textutil.SanitizeFileName(c.Mod.Caption)
	}
	c.Mod.ContainerName = strings.TrimSpace(c.Mod.ContainerName)
	if c.Mod.ContainerName == "" {
		c.Mod.ContainerName = defaultContainerName
	}
}

// NormalizePrefix trims prefix and appends the "_" separator when missing.
// An empty prefix stays empty.
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.HasSuffix(prefix, "_") {
		return prefix
	}
	return prefix + "_"
}

func (c *Config) normalizeWwise() {
	c.Wwise.Launcher = strings.TrimSpace(c.Wwise.Launcher)
	c.Wwise.Conversion = strings.TrimSpace(c.Wwise.Conversion)
	if c.Wwise.Conversion == "" {
		c.Wwise.Conversion = defaultConversion
	}
	if c.Wwise.TimeoutSeconds <= 0 {
		c.Wwise.TimeoutSeconds = defaultWwiseTimeout
	}
	c.Wwise.OutputCodepage = strings.ToLower(strings.TrimSpace(c.Wwise.OutputCodepage))
	if c.Wwise.OutputCodepage == "" {
		c.Wwise.OutputCodepage = defaultOutputCodepage
	}
}

func (c *Config) normalizeBuild() {
	if c.Build.CopyWorkers <= 0 {
		c.Build.CopyWorkers = defaultCopyWorkers
	}
	c.Build.TempDirName = strings.TrimSpace(c.Build.TempDirName)
	if c.Build.TempDirName == "" {
		c.Build.TempDirName = defaultTempDirName
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
