package preflight

import (
	"fmt"
	"strings"

	"soundmod/internal/config"
	"soundmod/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a build needs. WwiseCLI and the Wwise project
// are only checked when convert is true.
func RunAll(cfg *config.Config, convert bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Game directory", cfg.Paths.GameDir),
		CheckVersion(cfg.PreferencesPath()),
		CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir),
	}
	if convert {
		results = append(results, CheckReadableFile("Wwise project", cfg.Wwise.ProjectPath))
		for _, status := range CheckSystemDeps(cfg) {
			results = append(results, fromStatus(status))
		}
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Summarize joins failed results into one line for error messages.
func Summarize(failed []Result) string {
	parts := make([]string, 0, len(failed))
	for _, result := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	return strings.Join(parts, "; ")
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available}
	switch {
	case status.Available:
		result.Detail = status.Command
	case status.Optional:
		result.Passed = true
		result.Detail = "optional: " + status.Detail
	default:
		result.Detail = status.Detail
	}
	return result
}
