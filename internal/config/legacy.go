package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Keys of the KEY=VALUE config.ini used by the older Windows tool.
const (
	LegacyGamePath     = "GAME_PATH"
	LegacySourceDir    = "SOURCE_DIRECTORY"
	LegacyModCaption   = "MOD_CAPTION"
	LegacyModDirectory = "MOD_DIRECTORY"
	LegacyModPrefix    = "MOD_PREFIX"
	LegacyWwiseCLIPath = "WwiseCLIPath"
	LegacyProjectPath  = "ProjectPath"
)

var legacyKeys = []string{
	LegacyGamePath,
	LegacySourceDir,
	LegacyModCaption,
	LegacyModDirectory,
	LegacyModPrefix,
	LegacyWwiseCLIPath,
	LegacyProjectPath,
}

// ImportLegacy maps a config.ini onto the defaults. It returns the keys that
// were missing or empty; the config is still usable for the keys present.
func ImportLegacy(r io.Reader) (*Config, []string, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse legacy config: %w", err)
	}

	var missing []string
	get := func(key string) string {
		value := strings.TrimSpace(values[key])
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	cfg := Default()
	for _, key := range legacyKeys {
		value := get(key)
		switch key {
		case LegacyGamePath:
			cfg.Paths.GameDir = value
		case LegacySourceDir:
			cfg.Paths.SourceDir = value
		case LegacyModCaption:
			cfg.Mod.Caption = value
		case LegacyModDirectory:
			cfg.Mod.Directory = value
		case LegacyModPrefix:
			cfg.Mod.Prefix = NormalizePrefix(value)
		case LegacyWwiseCLIPath:
			cfg.Wwise.CLIPath = value
		case LegacyProjectPath:
			cfg.Wwise.ProjectPath = value
		}
	}
	return &cfg, missing, nil
}

// ImportLegacyFile is ImportLegacy over the file at path.
func ImportLegacyFile(path string) (*Config, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open legacy config: %w", err)
	}
	defer file.Close()
	return ImportLegacy(file)
}

// Save writes c to path as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
