package preflight

import (
	"fmt"
	"os"
	"strings"

	"soundmod/internal/config"
	"soundmod/internal/deps"
	"soundmod/internal/gameinfo"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path, true); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckReadableFile verifies that path is an existing, readable regular file.
func CheckReadableFile(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := checkAccess(path, false); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckVersion verifies that the client version can be read from the
// preferences file.
func CheckVersion(preferencesPath string) Result {
	const name = "Game version"
	version, err := gameinfo.ReadVersion(preferencesPath)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckSystemDeps evaluates the external programs used for conversion.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	launcher := strings.TrimSpace(cfg.Wwise.Launcher)
	requirements := []deps.Requirement{
		{
			Name:        "WwiseCLI",
			Command:     cfg.Wwise.CLIPath,
			Description: "Required for converting .wav sources to .wem",
			FileOnly:    launcher != "",
		},
	}
	if launcher != "" {
		requirements = append(requirements, deps.Requirement{
			Name:        "Launcher",
			Command:     launcher,
			Description: "Runs WwiseCLI on this platform",
		})
	}
	return deps.CheckBinaries(requirements)
}
