package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"soundmod/internal/config"
	"soundmod/internal/gameinfo"
	"soundmod/internal/logging"
	"soundmod/internal/services"
)

type commandContext struct {
	configFlag *string
	levelFlag  *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, levelFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		levelFlag:  levelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", resolved, err)
			return
		}
		if c.levelFlag != nil && strings.TrimSpace(*c.levelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.levelFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger returns a console logger writing to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
	}
	return logger, nil
}

// modDir resolves the installed mod directory from the game version.
func (c *commandContext) modDir() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if err := cfg.RequireBuild(false); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "config", "", "mod directory unknown", err)
	}
	version, err := gameinfo.ReadVersion(cfg.PreferencesPath())
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "version", "read game version", cfg.PreferencesPath(), err)
	}
	return gameinfo.ModTargetDir(cfg.Paths.GameDir, version, cfg.Mod.Directory), nil
}

// dirOrModDir returns the expanded flag value, or the installed mod
// directory when the flag is empty.
func (c *commandContext) dirOrModDir(flag string) (string, error) {
	if strings.TrimSpace(flag) == "" {
		return c.modDir()
	}
	dir, err := config.ExpandPath(strings.TrimSpace(flag))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cli", "resolve directory", flag, err)
	}
	return dir, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
