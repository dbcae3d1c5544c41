package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"soundmod/internal/config"
	"soundmod/internal/descriptor"
	"soundmod/internal/logging"
	"soundmod/internal/matcher"
	"soundmod/internal/modxml"
	"soundmod/internal/services"
	"soundmod/internal/sources"
)

// LoadDescriptor parses the descriptor named by mod.descriptor, or the
// bundled one when unset. Skipped lines are logged at debug level.
func LoadDescriptor(cfg *config.Config, logger *slog.Logger) (*descriptor.Tree, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	opts := []descriptor.Option{
		descriptor.WithDiagnostics(func(d descriptor.Diagnostic) {
			logger.Debug("descriptor line skipped",
				slog.Int("line", d.Line),
				slog.String("text", d.Text),
				logging.Error(d.Reason),
			)
		}),
	}
	if cfg != nil && cfg.Mod.StrictDescriptor {
		opts = append(opts, descriptor.WithStrict())
	}

	path := ""
	if cfg != nil {
		path = strings.TrimSpace(cfg.Mod.Descriptor)
	}
	if path == "" {
		tree, err := descriptor.ParseString(descriptor.DefaultText(), opts...)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "descriptor", "parse", "bundled descriptor", err)
		}
		return tree, nil
	}

	tree, err := descriptor.Load(path, opts...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "descriptor", "open", path, err)
		}
		return nil, services.Wrap(services.ErrValidation, "descriptor", "parse", path, err)
	}
	return tree, nil
}

// RenderOptions selects the directory Render reads and where it writes.
type RenderOptions struct {
	// Dir holds the converted files to match.
	Dir string
	// OutDir receives mod.xml. Defaults to Dir.
	OutDir string
	// DryRun matches without writing the document.
	DryRun bool
}

// RenderSummary is the outcome of a Render call.
type RenderSummary struct {
	Dir          string
	DocumentPath string
	Converted    []string
	Tree         *descriptor.Tree
	Result       *matcher.Result
	Unused       []string
}

// Render matches the converted files in opts.Dir against the descriptor and
// writes mod.xml, without touching sources or running WwiseCLI.
func Render(ctx context.Context, cfg *config.Config, opts RenderOptions, logger *slog.Logger) (*RenderSummary, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "render", "", "configuration required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithContext(services.WithStage(ctx, "render"), logger)
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, services.Wrap(services.ErrValidation, "render", "", "directory required", nil)
	}
	outDir := opts.OutDir
	if strings.TrimSpace(outDir) == "" {
		outDir = opts.Dir
	}

	tree, err := LoadDescriptor(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := sources.ListConverted(opts.Dir)
	if err != nil {
		return nil, err
	}

	summary := &RenderSummary{Dir: opts.Dir, Converted: names, Tree: tree}
	summary.Result = matcher.Match(cfg.Mod.Prefix, names, tree)
	summary.Unused = summary.Result.Unused()
	if opts.DryRun {
		return summary, nil
	}

	path, err := modxml.WriteFile(outDir, cfg.Mod.Caption, tree, modxml.WithContainerName(cfg.Mod.ContainerName))
	if err != nil {
		return summary, err
	}
	summary.DocumentPath = path
	stats := tree.Stats()
	logger.Info("mod document written",
		slog.String("path", path),
		slog.Int("files", len(names)),
		slog.Int("matched_events", stats.MatchedEvents),
		slog.Int("unused", len(summary.Unused)),
	)
	return summary, nil
}
