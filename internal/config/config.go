package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories a build reads from and writes to.
type Paths struct {
	GameDir   string `toml:"game_dir"`
	SourceDir string `toml:"source_dir"`
	LogDir    string `toml:"log_dir"`
}

// Mod describes the modification being built.
type Mod struct {
	Caption          string `toml:"caption"`
	Directory        string `toml:"directory"`
	Prefix           string `toml:"prefix"`
	Descriptor       string `toml:"descriptor"`
	StrictDescriptor bool   `toml:"strict_descriptor"`
	ContainerName    string `toml:"container_name"`
}

// Wwise contains configuration for the WwiseCLI conversion step.
type Wwise struct {
	CLIPath        string `toml:"cli_path"`
	// Launcher runs CLIPath through another program, such as wine on Linux.
	Launcher       string `toml:"launcher"`
	ProjectPath    string `toml:"project_path"`
	Conversion     string `toml:"conversion"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// OutputCodepage names the encoding WwiseCLI writes its console output in.
	OutputCodepage string `toml:"output_codepage"`
}

// Build contains configuration for the pipeline's file handling.
type Build struct {
	KeepTemp     bool   `toml:"keep_temp"`
	CopyWorkers  int    `toml:"copy_workers"`
	VerifyCopies bool   `toml:"verify_copies"`
	TempDirName  string `toml:"temp_dir_name"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for soundmod.
//
// Configuration sections by subsystem:
//   - Paths: game install, source audio, and log directories
//   - Mod: caption, target directory, filename prefix, descriptor override
//   - Wwise: WwiseCLI executable, project, conversion settings
//   - Build: temp directory handling and copy parallelism
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Mod     Mod     `toml:"mod"`
	Wwise   Wwise   `toml:"wwise"`
	Build   Build   `toml:"build"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/soundmod/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv exports variables from a .env file without overriding ones
// already present in the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("soundmod.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories soundmod owns.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// PreferencesPath returns the game's preferences.xml, which records the
// installed client version.
func (c *Config) PreferencesPath() string {
	return filepath.Join(c.Paths.GameDir, "preferences.xml")
}

// TempDir returns the directory WwiseCLI writes converted files into.
func (c *Config) TempDir() string {
	return filepath.Join(c.Paths.SourceDir, c.Build.TempDirName)
}

// SourcesListPath returns the external sources list handed to WwiseCLI.
func (c *Config) SourcesListPath() string {
	return filepath.Join(c.TempDir(), defaultSourcesListName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
