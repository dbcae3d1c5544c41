package build

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"soundmod/internal/services"
)

// LockFileName is created in the source directory while a build runs.
const LockFileName = ".soundmod.lock"

type sourceLock struct {
	path string
	lock *flock.Flock
}

func acquireLock(sourceDir string) (*sourceLock, error) {
	path := filepath.Join(sourceDir, LockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "build", "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "build", "acquire lock",
			fmt.Sprintf("another build is using %s", sourceDir), nil)
	}
	return &sourceLock{path: path, lock: fl}, nil
}

func (l *sourceLock) release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
