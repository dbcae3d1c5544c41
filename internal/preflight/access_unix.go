//go:build unix

package preflight

import "golang.org/x/sys/unix"

func checkAccess(path string, dir bool) error {
	mode := uint32(unix.R_OK)
	if dir {
		mode |= unix.W_OK | unix.X_OK
	}
	return unix.Access(path, mode)
}
