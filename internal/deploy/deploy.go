// Package deploy moves converted files into the game's mod directory and
// cleans up the conversion workspace afterwards.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"soundmod/internal/fileutil"
	"soundmod/internal/logging"
	"soundmod/internal/services"
	"soundmod/internal/sources"
)

// Options tunes CopyConverted.
type Options struct {
	Workers int
	Verify  bool
}

// Report summarizes a copy pass. Failed holds per-file errors; a failed file
// does not stop the others.
type Report struct {
	Copied []string
	Bytes  int64
	Failed []error
}

// CopyConverted copies every .wem file in fromDir into toDir, overwriting
// existing files. toDir is created when missing.
func CopyConverted(ctx context.Context, fromDir, toDir string, opts Options, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	names, err := fileutil.ListByExt(fromDir, sources.ConvertedExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Report{}, services.Wrap(services.ErrNotFound, "deploy", "list converted", fromDir, err)
		}
		return Report{}, services.Wrap(services.ErrIO, "deploy", "list converted", fromDir, err)
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return Report{}, services.Wrap(services.ErrIO, "deploy", "create mod directory", toDir, err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu     sync.Mutex
		report Report
		copied = make([]bool, len(names))
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			size, err := copyOne(filepath.Join(fromDir, name), filepath.Join(toDir, name), opts.Verify)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logging.WarnWithContext(logger, "copy failed", "deploy_copy_failed",
					slog.String("file", name),
					logging.Error(err),
					slog.String(logging.FieldImpact, "file missing from the mod directory"),
				)
				report.Failed = append(report.Failed, fmt.Errorf("copy %s: %w", name, err))
				return nil
			}
			copied[i] = true
			report.Bytes += size
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for i, name := range names {
		if copied[i] {
			report.Copied = append(report.Copied, name)
		}
	}
	logger.Info("converted files deployed",
		slog.Int("files", len(report.Copied)),
		slog.Int("failed", len(report.Failed)),
		slog.Int64("total_bytes", report.Bytes),
		slog.String("target", toDir),
	)
	return report, nil
}

func copyOne(src, dst string, verify bool) (int64, error) {
	if verify {
		return fileutil.CopyFileVerified(src, dst)
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return 0, err
	}
	info, err := os.Stat(dst)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// RemoveTemp deletes the conversion workspace. A missing directory is not an
// error.
func RemoveTemp(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return services.Wrap(services.ErrIO, "cleanup", "remove temp", dir, err)
	}
	return nil
}
