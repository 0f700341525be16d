package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ErrBuildInProgress indicates another process is currently building into
// the same output directory.
var ErrBuildInProgress = errors.New("another build is in progress")

// lockFilename is the name of the build lock file inside the output dir.
const lockFilename = ".build.lock"

// BuildLock serializes builds targeting the same output directory using
// flock(2). The lock is released when the process exits or crashes, so a
// stale lock cannot outlive its holder.
type BuildLock struct {
	path string
	file *os.File
}

// NewBuildLock creates a lock scoped to the given output directory.
func NewBuildLock(outputDir string) *BuildLock {
	return &BuildLock{path: filepath.Join(outputDir, lockFilename)}
}

// Acquire takes the exclusive lock without blocking. A held lock returns
// ErrBuildInProgress; the build fails immediately rather than queueing, so
// no partial artifact can be published by interleaved writers.
func (l *BuildLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrBuildInProgress
		}
		return fmt.Errorf("flock failed: %w", err)
	}

	l.file = file
	return nil
}

// Release unlocks and closes the lock file. Safe to call when not held.
func (l *BuildLock) Release() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("flock unlock failed: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close failed: %w", closeErr)
	}
	return nil
}
