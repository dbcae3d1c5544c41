package logs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"soundmod/internal/logging"
	"soundmod/internal/services"
)

// Entry is one build log on disk.
type Entry struct {
	Path    string
	BuildID string
	ModTime time.Time
	Size    int64
}

// List returns the build logs in dir, newest first. A missing directory
// yields no entries.
func List(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logging.BuildLogPattern))
	if err != nil {
		return nil, fmt.Errorf("glob build logs: %w", err)
	}
	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat build log: %w", err)
		}
		if info.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Path:    path,
			BuildID: buildIDFromName(filepath.Base(path)),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].Path > entries[j].Path
		}
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Find returns the newest log whose build id starts with id, or the newest
// log overall when id is empty.
func Find(dir, id string) (Entry, error) {
	entries, err := List(dir)
	if err != nil {
		return Entry{}, err
	}
	id = strings.ToLower(strings.TrimSpace(id))
	for _, entry := range entries {
		if id == "" || strings.HasPrefix(entry.BuildID, id) || (len(id) > len(entry.BuildID) && strings.HasPrefix(id, entry.BuildID)) {
			return entry, nil
		}
	}
	if id == "" {
		return Entry{}, services.Wrap(services.ErrNotFound, "logs", "find", fmt.Sprintf("no build logs in %s", dir), nil)
	}
	return Entry{}, services.Wrap(services.ErrNotFound, "logs", "find", fmt.Sprintf("no build log for %s in %s", id, dir), nil)
}

// buildIDFromName extracts <id> from build-<date>-<time>-<id>.log.
func buildIDFromName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndexByte(name, '-')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// Tail returns the last limit lines of path. A limit of zero or less returns
// every line.
func Tail(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if limit <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log file: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, limit)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := range count {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
