package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"soundmod/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	Writer      io.Writer
	Development bool
}

// New constructs a slog logger using the provided options. Output goes to
// stderr unless Writer is set.
func New(opts Options) (*slog.Logger, error) {
	handler, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func newHandler(opts Options) (slog.Handler, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	addSource := opts.Development || level <= slog.LevelDebug

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		return newJSONHandler(writer, levelVar, addSource), nil
	case "console", "":
		return newPrettyHandler(writer, levelVar, addSource), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates the console logger described by the logging section.
func NewFromConfig(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", Writer: w})
	}
	return New(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: w})
}

// BuildLog is the JSON log file written alongside a build's console output.
type BuildLog struct {
	Path string
	file *os.File
}

// Close flushes and closes the log file.
func (b *BuildLog) Close() error {
	if b == nil || b.file == nil {
		return nil
	}
	err := b.file.Close()
	b.file = nil
	return err
}

// BuildLogPattern matches the files created by OpenBuildLog.
const BuildLogPattern = "build-*.log"

// OpenBuildLog creates <log_dir>/build-<timestamp>-<id>.log and returns a
// logger that writes to both base and the file. Every record in the file is
// tagged with buildID. Files older than the configured retention are pruned
// before the new one is opened.
func OpenBuildLog(base *slog.Logger, cfg *config.Config, buildID string) (*slog.Logger, *BuildLog, error) {
	if cfg == nil || strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return base, nil, nil
	}
	dir := cfg.Paths.LogDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return base, nil, fmt.Errorf("ensure log directory: %w", err)
	}
	PruneBuildLogs(base, dir, cfg.Logging.RetentionDays)

	short := buildID
	if len(short) > 8 {
		short = short[:8]
	}
	name := fmt.Sprintf("build-%s-%s.log", time.Now().Format("20060102-150405"), short)
	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return base, nil, fmt.Errorf("open build log %s: %w", path, err)
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	fileHandler := newBuildIDHandler(newJSONHandler(file, levelVar, false), buildID)
	return Mirror(base, fileHandler), &BuildLog{Path: path, file: file}, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
