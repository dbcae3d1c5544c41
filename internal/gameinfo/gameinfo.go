// Package gameinfo reads facts about the installed game client that decide
// where a mod is deployed.
package gameinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// PreferencesFile is the client settings file holding the server version.
	PreferencesFile = "preferences.xml"
	versionKey      = "last_server_version"
)

// ModsSubdir is the path below bin/<version> where sound mods live.
var ModsSubdir = filepath.Join("res_mods", "banks", "mods")

// ErrVersionNotFound reports a preferences file without a usable version line.
var ErrVersionNotFound = errors.New("game version not found")

// ReadVersion opens the preferences file at path and returns the client build
// number recorded on its last_server_version line.
func ReadVersion(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read game version: %w", err)
	}
	defer file.Close()

	version, err := ParseVersion(file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return version, nil
}

// ParseVersion scans r for the first line mentioning last_server_version and
// returns the text between that line's last comma and its last tab. The value
// line looks like "\t<last_server_version>\t0,12,3,0,7234567\t</...>".
func ParseVersion(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.Contains(line, versionKey) {
			continue
		}
		start := strings.LastIndexByte(line, ',') + 1
		end := strings.LastIndexByte(line, '\t')
		if end < start {
			end = len(line)
		}
		if start == 0 {
			// No comma in the value; use the tab-delimited field before end.
			start = strings.LastIndexByte(line[:end], '\t') + 1
		}
		version := strings.TrimSpace(line[start:end])
		if version == "" {
			return "", ErrVersionNotFound
		}
		return version, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", ErrVersionNotFound
}

// ModTargetDir returns <gameDir>/bin/<version>/res_mods/banks/mods/<modDir>.
func ModTargetDir(gameDir, version, modDir string) string {
	return filepath.Join(gameDir, "bin", version, ModsSubdir, modDir)
}
