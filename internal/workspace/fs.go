package workspace

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/getlawrence/injectgen/internal/logger"
)

const (
	defaultLockTimeout = 5 * time.Second
	lockPollInterval   = 10 * time.Millisecond
)

// Options controls how FSHost writes.
type Options struct {
	// DryRun reports what would change without touching the file.
	DryRun bool
	// Backup writes <file>.backup with the original content before overwriting.
	Backup bool
	// LockTimeout bounds how long Lock waits for another process.
	LockTimeout time.Duration
	// LockDir holds the lock files. Defaults to the OS temp dir so no stray
	// files appear next to sources.
	LockDir string
	Logger  logger.Logger
}

// FSHost is a Host backed by the local file system.
type FSHost struct {
	opts Options
}

// NewFSHost creates a file system host.
func NewFSHost(opts Options) *FSHost {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	if opts.LockDir == "" {
		opts.LockDir = os.TempDir()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	return &FSHost{opts: opts}
}

// DryRun reports whether commits are simulated.
func (h *FSHost) DryRun() bool { return h.opts.DryRun }

// Lock takes an OS-level exclusive lock for path.
func (h *FSHost) Lock(ctx context.Context, path string) (func() error, error) {
	if path == "" {
		return nil, fmt.Errorf("failed to lock: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	sum := sha256.Sum256([]byte(abs))
	lockPath := filepath.Join(h.opts.LockDir, "injectgen-"+hex.EncodeToString(sum[:8])+".lock")

	lockCtx, cancel := context.WithTimeout(ctx, h.opts.LockTimeout)
	defer cancel()

	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLockContext(lockCtx, lockPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
	}
	return fileLock.Unlock, nil
}

// Read returns the content of path.
func (h *FSHost) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// BeginEdit starts an edit session for path.
func (h *FSHost) BeginEdit(path string) *Recorder {
	return newRecorder(h, path)
}

// Commit re-reads the file, applies the recorded inserts and writes the result
// unless the host is in dry-run mode.
func (h *FSHost) Commit(ctx context.Context, rec *Recorder) ([]byte, error) {
	if err := rec.checkOwner(h); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := rec.Path()
	original, err := h.Read(path)
	if err != nil {
		return nil, err
	}
	if rec.batch.Empty() {
		return original, nil
	}

	modified, err := render(rec, original)
	if err != nil {
		return nil, err
	}

	if h.opts.DryRun {
		h.opts.Logger.Logf("Would modify file: %s\n", path)
		for _, d := range rec.batch.Directives() {
			h.opts.Logger.Logf("  %s at offset %d: %s\n", d.Kind, d.Offset, strings.TrimSpace(d.Text))
		}
		return modified, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if h.opts.Backup {
		backupPath := path + ".backup"
		if err := os.WriteFile(backupPath, original, info.Mode().Perm()); err != nil {
			h.opts.Logger.Logf("Warning: failed to create backup: %v\n", err)
		}
	}

	if err := writeAtomic(path, modified, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write modified file: %w", err)
	}

	h.opts.Logger.Logf("Successfully modified: %s\n", path)
	return modified, nil
}

// writeAtomic replaces path through a temp file in the same directory, so
// readers see either the old content or the new one.
func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), path)
}
