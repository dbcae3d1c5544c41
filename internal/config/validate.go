package config

import (
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"soundmod/internal/textutil"
)

// Validate ensures the configuration values are well formed. Required build
// inputs are checked separately by RequireBuild so that commands which only
// render or inspect can run with a partial configuration.
func (c *Config) Validate() error {
	if err := c.Mod.Validate(); err != nil {
		return fmt.Errorf("mod: %w", err)
	}
	if err := c.Wwise.Validate(); err != nil {
		return fmt.Errorf("wwise: %w", err)
	}
	if err := c.Build.Validate(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Validate validates the mod section.
func (m *Mod) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Directory, validation.By(singleSegment)),
		validation.Field(&m.ContainerName, validation.Required),
	)
}

// Validate validates the wwise section.
func (w *Wwise) Validate() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Conversion, validation.Required),
		validation.Field(&w.TimeoutSeconds, validation.Min(1)),
		validation.Field(&w.OutputCodepage, validation.By(knownCodepage)),
	)
}

// Validate validates the build section.
func (b *Build) Validate() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.CopyWorkers, validation.Min(1), validation.Max(64)),
		validation.Field(&b.TempDirName, validation.Required, validation.By(singleSegment)),
	)
}

// Validate validates the logging section.
func (l *Logging) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Format, validation.In("console", "json")),
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&l.RetentionDays, validation.Min(0)),
	)
}

// RequireBuild reports the first setting a build needs that is missing.
// When convert is false the WwiseCLI settings are not required.
func (c *Config) RequireBuild(convert bool) error {
	type requirement struct {
		key   string
		value string
	}
	required := []requirement{
		{"paths.game_dir", c.Paths.GameDir},
		{"paths.source_dir", c.Paths.SourceDir},
		{"mod.caption", c.Mod.Caption},
		{"mod.directory", c.Mod.Directory},
		{"mod.prefix", c.Mod.Prefix},
	}
	if convert {
		required = append(required,
			requirement{"wwise.cli_path", c.Wwise.CLIPath},
			requirement{"wwise.project_path", c.Wwise.ProjectPath},
		)
	}
	for _, req := range required {
		if err := validation.Validate(req.value, validation.Required.Error(req.key+" must be set")); err != nil {
			return err
		}
	}
	return nil
}

func singleSegment(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) || filepath.Base(s) != s {
		return validation.NewError("validation_single_segment", "must be a single directory name")
	}
	return nil
}

func knownCodepage(value any) error {
	s, _ := value.(string)
	if _, err := textutil.LookupEncoding(s); err != nil {
		return validation.NewError("validation_codepage", err.Error())
	}
	return nil
}
