package build

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"soundmod/internal/config"
	"soundmod/internal/deploy"
	"soundmod/internal/descriptor"
	"soundmod/internal/logging"
	"soundmod/internal/matcher"
	"soundmod/internal/preflight"
	"soundmod/internal/services"
	"soundmod/internal/services/wwise"
	"soundmod/internal/sources"
	"soundmod/internal/stageexec"
)

// Options tunes a single build.
type Options struct {
	// SkipConvert leaves WwiseCLI alone and deploys whatever converted files
	// already sit in the temp directory.
	SkipConvert bool
	// DryRun plans renames and matching without changing any file.
	DryRun bool
}

// Summary describes what a build did. A failed build returns the summary
// filled up to the failing stage.
type Summary struct {
	BuildID      string
	Version      string
	TargetDir    string
	DocumentPath string
	LogPath      string

	Renamed        []sources.Rename
	RenameFailures []error
	Selected       []string
	Conversion     wwise.Result
	ConvertErr     error
	Deployed       deploy.Report
	Converted      []string

	Tree   *descriptor.Tree
	Result *matcher.Result
	Unused []string

	Stages []stageexec.Timing
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithConverter replaces the WwiseCLI client built from the configuration.
func WithConverter(converter wwise.Converter) Option {
	return func(b *Builder) {
		b.converter = converter
	}
}

// Builder runs builds for one configuration.
type Builder struct {
	cfg       *config.Config
	logger    *slog.Logger
	converter wwise.Converter
}

// New returns a Builder for cfg.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "build", "", "configuration required", nil)
	}
	b := &Builder{cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, "build")
	return b, nil
}

// Run executes the pipeline once.
func (b *Builder) Run(ctx context.Context, opts Options) (*Summary, error) {
	convert := !opts.SkipConvert && !opts.DryRun
	if err := b.cfg.RequireBuild(convert); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "build", "validate config", "", err)
	}
	if failed := preflight.Failed(preflight.RunAll(b.cfg, convert)); len(failed) > 0 {
		return nil, services.Wrap(services.ErrValidation, "build", "preflight", preflight.Summarize(failed), nil)
	}

	if !opts.DryRun {
		lock, err := acquireLock(b.cfg.Paths.SourceDir)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.release(); err != nil {
				b.logger.Warn("release source lock failed", logging.Error(err))
			}
		}()
	}

	summary := &Summary{BuildID: uuid.NewString()}
	ctx = services.WithBuildID(ctx, summary.BuildID)
	logger := b.logger
	if !opts.DryRun {
		teed, buildLog, err := logging.OpenBuildLog(b.logger, b.cfg, summary.BuildID)
		if err != nil {
			logging.WarnWithContext(b.logger, "build log unavailable", "build_log_unavailable",
				logging.Error(err),
				slog.String(logging.FieldImpact, "only console output is kept"),
			)
		} else if buildLog != nil {
			logger = teed
			summary.LogPath = buildLog.Path
			defer buildLog.Close()
		}
	}

	runLogger := logging.WithContext(ctx, logger)
	runLogger.Info("build started",
		slog.String("source_dir", b.cfg.Paths.SourceDir),
		slog.String("mod", b.cfg.Mod.Caption),
		slog.Bool("convert", convert),
		slog.Bool("dry_run", opts.DryRun),
	)

	r := &run{cfg: b.cfg, opts: opts, convert: convert, summary: summary, converter: b.converter}
	for _, st := range r.stages() {
		timing, err := stageexec.Run(ctx, stageexec.Options{
			Logger:    logger,
			StageName: st.name,
			Run:       st.fn,
		})
		summary.Stages = append(summary.Stages, timing)
		if err != nil {
			return summary, err
		}
	}

	attrs := []slog.Attr{
		slog.String("target_dir", summary.TargetDir),
		slog.Int("renamed", len(summary.Renamed)),
		slog.Int("selected", len(summary.Selected)),
		slog.Int("deployed", len(summary.Deployed.Copied)),
		slog.Int("unused", len(summary.Unused)),
	}
	if summary.DocumentPath != "" {
		attrs = append(attrs, slog.String("document", summary.DocumentPath))
	}
	runLogger.Info("build finished", logging.Args(attrs...)...)
	return summary, nil
}

// Problems collects the non-fatal failures a finished build recorded.
func (s *Summary) Problems() []error {
	if s == nil {
		return nil
	}
	problems := append([]error(nil), s.RenameFailures...)
	if s.ConvertErr != nil {
		problems = append(problems, s.ConvertErr)
	}
	return append(problems, s.Deployed.Failed...)
}

