//go:build !unix

package preflight

import (
	"os"
	"path/filepath"
)

// checkAccess opens path for reading and, for directories, creates and
// removes a probe file.
func checkAccess(path string, dir bool) error {
	if !dir {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		return f.Close()
	}
	probe, err := os.CreateTemp(path, ".soundmod-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(filepath.Clean(name))
}
