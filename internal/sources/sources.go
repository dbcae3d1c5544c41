package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"soundmod/internal/descriptor"
	"soundmod/internal/fileutil"
	"soundmod/internal/logging"
	"soundmod/internal/services"
)

const (
	// SourceExt is the extension of the audio files fed to WwiseCLI.
	SourceExt = ".wav"
	// ConvertedExt is the extension WwiseCLI gives converted files.
	ConvertedExt = ".wem"
)

// Rename is one planned or applied source file rename.
type Rename struct {
	From string
	To   string
}

// PlanRenames returns the renames that give every relevant .wav in names the
// mod prefix. Files already carrying the prefix, files of other types and
// files no condition list refers to are left alone.
func PlanRenames(names []string, modPrefix string, tree *descriptor.Tree) []Rename {
	var plan []Rename
	for _, name := range names {
		if !hasExt(name, SourceExt) || strings.HasPrefix(name, modPrefix) {
			continue
		}
		if !tree.Relevant(name) {
			continue
		}
		plan = append(plan, Rename{From: name, To: modPrefix + name})
	}
	return plan
}

// ApplyRenames performs plan inside dir. A failing rename is logged and
// collected; the remaining renames still run. An existing target is never
// overwritten.
func ApplyRenames(dir string, plan []Rename, logger *slog.Logger) ([]Rename, []error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var (
		applied []Rename
		failed  []error
	)
	for _, rename := range plan {
		from := filepath.Join(dir, rename.From)
		to := filepath.Join(dir, rename.To)
		if _, err := os.Lstat(to); err == nil {
			err = fmt.Errorf("rename %s: target %s already exists", rename.From, rename.To)
			logging.WarnWithContext(logger, "source rename skipped", "source_rename_skipped",
				slog.String("from", rename.From),
				slog.String("to", rename.To),
				slog.String(logging.FieldErrorHint, "remove the duplicate source file"),
			)
			failed = append(failed, err)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			failed = append(failed, fmt.Errorf("rename %s: %w", rename.From, err))
			continue
		}
		if err := os.Rename(from, to); err != nil {
			logging.WarnWithContext(logger, "source rename failed", "source_rename_failed",
				slog.String("from", rename.From),
				logging.Error(err),
			)
			failed = append(failed, fmt.Errorf("rename %s: %w", rename.From, err))
			continue
		}
		logger.Debug("source renamed", slog.String("from", rename.From), slog.String("to", rename.To))
		applied = append(applied, rename)
	}
	return applied, failed
}

// NormalizeNames plans and applies the prefix renames for the .wav files in
// dir.
func NormalizeNames(dir, modPrefix string, tree *descriptor.Tree, logger *slog.Logger) ([]Rename, []error, error) {
	names, err := fileutil.ListByExt(dir, SourceExt)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrIO, "rename", "list sources", dir, err)
	}
	applied, failed := ApplyRenames(dir, PlanRenames(names, modPrefix, tree), logger)
	return applied, failed, nil
}

// SelectForConversion filters names down to the prefixed .wav files some
// condition list refers to, preserving order.
func SelectForConversion(names []string, modPrefix string, tree *descriptor.Tree) []string {
	var selected []string
	for _, name := range names {
		if hasExt(name, SourceExt) && strings.HasPrefix(name, modPrefix) && tree.Relevant(name) {
			selected = append(selected, name)
		}
	}
	return selected
}

// ConversionList returns the sorted .wav files in dir that should be handed
// to WwiseCLI.
func ConversionList(dir, modPrefix string, tree *descriptor.Tree) ([]string, error) {
	names, err := fileutil.ListByExt(dir, SourceExt)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "collect", "list sources", dir, err)
	}
	return SelectForConversion(names, modPrefix, tree), nil
}

// ListConverted returns the sorted .wem files in dir.
func ListConverted(dir string) ([]string, error) {
	names, err := fileutil.ListByExt(dir, ConvertedExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "render", "list converted", dir, err)
		}
		return nil, services.Wrap(services.ErrIO, "render", "list converted", dir, err)
	}
	return names, nil
}

func hasExt(name, ext string) bool {
	return len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext)
}
