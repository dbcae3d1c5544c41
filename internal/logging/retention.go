package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// PruneBuildLogs deletes build logs in dir whose modification time is more
// than retentionDays old and returns how many were removed. Files that do not
// match BuildLogPattern are never touched. retentionDays <= 0 keeps
// everything.
func PruneBuildLogs(logger *slog.Logger, dir string, retentionDays int) int {
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}
	matches, err := filepath.Glob(filepath.Join(dir, BuildLogPattern))
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old build log could not be removed", "log_retention_failed",
				slog.String("path", path),
				Error(err),
				slog.String(FieldErrorHint, "check permissions on paths.log_dir"),
			)
			continue
		}
		removed++
		logger.Debug("build log pruned", slog.String("path", path))
	}
	if removed > 0 {
		logger.Info("old build logs pruned",
			slog.Int("count", removed),
			slog.Int("retention_days", retentionDays),
			slog.String(FieldEventType, "log_pruned"),
		)
	}
	return removed
}
