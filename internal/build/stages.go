package build

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"soundmod/internal/config"
	"soundmod/internal/deploy"
	"soundmod/internal/fileutil"
	"soundmod/internal/gameinfo"
	"soundmod/internal/logging"
	"soundmod/internal/matcher"
	"soundmod/internal/modxml"
	"soundmod/internal/services"
	"soundmod/internal/services/wwise"
	"soundmod/internal/sources"
	"soundmod/internal/stageexec"
	"soundmod/internal/textutil"
)

// Stage names in pipeline order.
const (
	StageDescriptor = "descriptor"
	StageVersion    = "version"
	StageRename     = "rename"
	StageCollect    = "collect"
	StageConvert    = "convert"
	StageDeploy     = "deploy"
	StageRender     = "render"
	StageReport     = "report"
	StageCleanup    = "cleanup"
)

type stageFunc struct {
	name string
	fn   stageexec.Func
}

// run carries state from one stage to the next.
type run struct {
	cfg       *config.Config
	opts      Options
	convert   bool
	summary   *Summary
	converter wwise.Converter
}

func (r *run) stages() []stageFunc {
	return []stageFunc{
		{StageDescriptor, r.loadDescriptor},
		{StageVersion, r.resolveTarget},
		{StageRename, r.renameSources},
		{StageCollect, r.collectSources},
		{StageConvert, r.convertSources},
		{StageDeploy, r.deployConverted},
		{StageRender, r.renderDocument},
		{StageReport, r.reportUnused},
		{StageCleanup, r.cleanup},
	}
}

func (r *run) loadDescriptor(_ context.Context, logger *slog.Logger) error {
	tree, err := LoadDescriptor(r.cfg, logger)
	if err != nil {
		return err
	}
	r.summary.Tree = tree
	stats := tree.Stats()
	logger.Info("descriptor loaded",
		slog.Int("events", stats.Events),
		slog.Int("lists", stats.Lists),
		slog.Int("states", stats.States),
	)
	return nil
}

func (r *run) resolveTarget(_ context.Context, logger *slog.Logger) error {
	version, err := gameinfo.ReadVersion(r.cfg.PreferencesPath())
	if err != nil {
		return services.Wrap(services.ErrValidation, StageVersion, "read game version", r.cfg.PreferencesPath(), err)
	}
	r.summary.Version = version
	r.summary.TargetDir = gameinfo.ModTargetDir(r.cfg.Paths.GameDir, version, r.cfg.Mod.Directory)
	if !r.opts.DryRun {
		if err := os.MkdirAll(r.summary.TargetDir, 0o755); err != nil {
			return services.Wrap(services.ErrIO, StageVersion, "create mod directory", r.summary.TargetDir, err)
		}
	}
	logger.Info("mod directory resolved",
		slog.String("game_version", version),
		slog.String("target_dir", r.summary.TargetDir),
	)
	return nil
}

func (r *run) renameSources(_ context.Context, logger *slog.Logger) error {
	dir, prefix, tree := r.cfg.Paths.SourceDir, r.cfg.Mod.Prefix, r.summary.Tree
	if r.opts.DryRun {
		names, err := fileutil.ListByExt(dir, sources.SourceExt)
		if err != nil {
			return services.Wrap(services.ErrIO, StageRename, "list sources", dir, err)
		}
		r.summary.Renamed = sources.PlanRenames(names, prefix, tree)
		logger.Info("renames planned", slog.Int("count", len(r.summary.Renamed)))
		return nil
	}

	applied, failed, err := sources.NormalizeNames(dir, prefix, tree, logger)
	if err != nil {
		return err
	}
	r.summary.Renamed = applied
	r.summary.RenameFailures = failed
	logger.Info("sources renamed",
		slog.Int("renamed", len(applied)),
		slog.Int("failed", len(failed)),
	)
	return nil
}

func (r *run) collectSources(_ context.Context, logger *slog.Logger) error {
	dir, prefix, tree := r.cfg.Paths.SourceDir, r.cfg.Mod.Prefix, r.summary.Tree
	if r.opts.DryRun {
		names, err := fileutil.ListByExt(dir, sources.SourceExt)
		if err != nil {
			return services.Wrap(services.ErrIO, StageCollect, "list sources", dir, err)
		}
		renamed := make(map[string]string, len(r.summary.Renamed))
		for _, rename := range r.summary.Renamed {
			renamed[rename.From] = rename.To
		}
		for i, name := range names {
			if to, ok := renamed[name]; ok {
				names[i] = to
			}
		}
		r.summary.Selected = sources.SelectForConversion(names, prefix, tree)
	} else {
		selected, err := sources.ConversionList(dir, prefix, tree)
		if err != nil {
			return err
		}
		r.summary.Selected = selected
	}
	logger.Info("sources collected", slog.Int("count", len(r.summary.Selected)))

	if !r.convert || len(r.summary.Selected) == 0 {
		return nil
	}
	listPath := r.cfg.SourcesListPath()
	if err := sources.WriteExternalSources(listPath, dir, r.cfg.Wwise.Conversion, r.summary.Selected); err != nil {
		return err
	}
	logger.Debug("external sources list written", slog.String("path", listPath))
	return nil
}

func (r *run) convertSources(ctx context.Context, logger *slog.Logger) error {
	if !r.convert {
		logger.Info("conversion skipped")
		return nil
	}
	if len(r.summary.Selected) == 0 {
		logger.Info("no sources to convert")
		return nil
	}
	converter, err := r.converterFor(logger)
	if err != nil {
		return err
	}

	result, err := converter.Convert(ctx, wwise.Request{
		Project:     r.cfg.Wwise.ProjectPath,
		SourcesList: r.cfg.SourcesListPath(),
		OutputDir:   r.cfg.Paths.SourceDir,
	})
	r.summary.Conversion = result
	if errors.Is(err, wwise.ErrConversionFailed) {
		// WwiseCLI still writes every file it could convert.
		r.summary.ConvertErr = err
		logging.WarnWithContext(logger, "conversion reported errors", "wwise_conversion_errors",
			logging.Error(err),
			slog.Int("error_lines", len(result.Errors)),
			slog.String(logging.FieldImpact, "some sources may be missing from the mod"),
		)
		return nil
	}
	if err != nil {
		return services.Wrap(services.ErrExternalTool, StageConvert, "run WwiseCLI", r.cfg.Wwise.CLIPath, err)
	}
	logger.Info("sources converted",
		slog.Int("files", len(r.summary.Selected)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", result.Duration),
	)
	return nil
}

func (r *run) converterFor(logger *slog.Logger) (wwise.Converter, error) {
	if r.converter != nil {
		return r.converter, nil
	}
	enc, err := textutil.LookupEncoding(r.cfg.Wwise.OutputCodepage)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageConvert, "output codepage", r.cfg.Wwise.OutputCodepage, err)
	}
	client, err := wwise.New(r.cfg.Wwise.CLIPath, r.cfg.Wwise.TimeoutSeconds,
		wwise.WithLauncher(r.cfg.Wwise.Launcher),
		wwise.WithCodepage(enc),
		wwise.WithLogger(logger),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageConvert, "wwise client", "", err)
	}
	return client, nil
}

func (r *run) deployConverted(ctx context.Context, logger *slog.Logger) error {
	if r.opts.DryRun {
		logger.Info("deploy skipped for dry run")
		return nil
	}
	report, err := deploy.CopyConverted(ctx, r.cfg.TempDir(), r.summary.TargetDir, deploy.Options{
		Workers: r.cfg.Build.CopyWorkers,
		Verify:  r.cfg.Build.VerifyCopies,
	}, logger)
	if errors.Is(err, services.ErrNotFound) {
		logger.Info("no converted files to deploy", slog.String("temp_dir", r.cfg.TempDir()))
		return nil
	}
	r.summary.Deployed = report
	return err
}

func (r *run) renderDocument(_ context.Context, logger *slog.Logger) error {
	names, err := sources.ListConverted(r.summary.TargetDir)
	if err != nil && !(r.opts.DryRun && errors.Is(err, services.ErrNotFound)) {
		return err
	}
	r.summary.Converted = names
	r.summary.Result = matcher.Match(r.cfg.Mod.Prefix, names, r.summary.Tree)
	if r.opts.DryRun {
		logger.Info("document not written for dry run", slog.Int("files", len(names)))
		return nil
	}

	path, err := modxml.WriteFile(r.summary.TargetDir, r.cfg.Mod.Caption, r.summary.Tree,
		modxml.WithContainerName(r.cfg.Mod.ContainerName))
	if err != nil {
		return err
	}
	r.summary.DocumentPath = path
	stats := r.summary.Tree.Stats()
	logger.Info("mod document written",
		slog.String("path", path),
		slog.Int("files", len(names)),
		slog.Int("matched_events", stats.MatchedEvents),
		slog.Int("matched_lists", stats.MatchedLists),
	)
	return nil
}

func (r *run) reportUnused(_ context.Context, logger *slog.Logger) error {
	r.summary.Unused = r.summary.Result.Unused()
	if len(r.summary.Unused) == 0 {
		logger.Info("every converted file is used")
		return nil
	}
	logging.WarnWithContext(logger, "converted files not referenced by the descriptor", "unused_files",
		slog.Int("count", len(r.summary.Unused)),
		slog.Any("files", r.summary.Unused),
		slog.String(logging.FieldErrorHint, "check the file names against the descriptor prefixes"),
	)
	return nil
}

func (r *run) cleanup(_ context.Context, logger *slog.Logger) error {
	if r.opts.DryRun || r.cfg.Build.KeepTemp {
		logger.Debug("temp directory kept", slog.String("temp_dir", r.cfg.TempDir()))
		return nil
	}
	if err := deploy.RemoveTemp(r.cfg.TempDir()); err != nil {
		return err
	}
	logger.Debug("temp directory removed", slog.String("temp_dir", r.cfg.TempDir()))
	return nil
}
