// Package pid keeps a second powerlogd from appending to the same log.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/powerlogd/internal/errors"
	"golang.org/x/sys/unix"
)

const (
	ErrAlreadyRunning = errors.ErrAlreadyRunning
	ErrPIDFile        = errors.ErrorCode("pid_file_failed")
)

// Acquire writes the current process ID to path. It fails with
// ErrAlreadyRunning if path names a live process other than this one; a stale
// file is overwritten.
func Acquire(path string) error {
	errFactory := errors.New()

	if running, pid := alive(path); running && pid != os.Getpid() {
		return errFactory.WithData(ErrAlreadyRunning, pid)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errFactory.Wrap(ErrPIDFile, err)
	}

	err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600)
	if err != nil {
		return errFactory.Wrap(ErrPIDFile, err)
	}

	return nil
}

// Release removes the PID file. A missing file is not an error.
func Release(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(ErrPIDFile, err)
	}
	return nil
}

// alive reports whether path holds the PID of a running process.
func alive(path string) (bool, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false, 0
	}

	// Signal 0 checks existence; EPERM means it exists under another user.
	err = unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM, pid
}
