// Package watch re-runs a callback whenever the converted files in a mod
// directory change.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"soundmod/internal/logging"
	"soundmod/internal/services"
	"soundmod/internal/sources"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Func handles one debounced batch of changes. changed holds the base names
// of the .wem files that were created, written, removed or renamed, sorted.
type Func func(ctx context.Context, changed []string) error

// Watch watches dir until ctx is cancelled. Events for files other than
// .wem are ignored, so writing mod.xml into the same directory does not
// retrigger fn. A failing fn is logged and watching continues.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, fn Func) error {
	if fn == nil {
		return errors.New("watch callback required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return services.Wrap(services.ErrIO, "watch", "create watcher", dir, err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return services.Wrap(services.ErrNotFound, "watch", "add directory", dir, err)
	}
	logger.Info("watcher started", slog.String("dir", dir), slog.Duration("debounce", debounce))

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher stopped")
			return nil

		case <-timerC:
			changed := drain(pending)
			logger.Debug("converted files changed", slog.Any("files", changed))
			if err := fn(ctx, changed); err != nil {
				logging.WarnWithContext(logger, "watch callback failed", "watch_callback_failed",
					logging.Error(err),
					slog.Int("files", len(changed)),
				)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.EqualFold(filepath.Ext(name), sources.ConvertedExt) {
				continue
			}
			pending[name] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.Error(watchErr))
		}
	}
}

func drain(pending map[string]struct{}) []string {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
		delete(pending, name)
	}
	sort.Strings(names)
	return names
}
