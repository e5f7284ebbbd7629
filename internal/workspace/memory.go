package workspace

import (
	"context"
	"fmt"
	"sync"
)

// MemHost keeps files in memory for in-process callers such as the injector
// tests. The plan command uses a dry-run FSHost instead.
type MemHost struct {
	mu     sync.Mutex
	files  map[string][]byte
	locked map[string]bool
}

// NewMemHost creates a host seeded with files (path -> content).
func NewMemHost(files map[string]string) *MemHost {
	h := &MemHost{files: make(map[string][]byte, len(files)), locked: make(map[string]bool)}
	for p, c := range files {
		h.files[p] = []byte(c)
	}
	return h
}

// Lock fails fast when path is already held; in-process callers never wait.
func (h *MemHost) Lock(ctx context.Context, path string) (func() error, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked[path] {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
	}
	h.locked[path] = true
	return func() error {
		h.mu.Lock()
		delete(h.locked, path)
		h.mu.Unlock()
		return nil
	}, nil
}

// Read returns a copy of the stored content.
func (h *MemHost) Read(path string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	return append([]byte(nil), content...), nil
}

// Write stores content for path.
func (h *MemHost) Write(path, content string) {
	h.mu.Lock()
	h.files[path] = []byte(content)
	h.mu.Unlock()
}

// BeginEdit starts an edit session for path.
func (h *MemHost) BeginEdit(path string) *Recorder {
	return newRecorder(h, path)
}

// Commit applies the recorded inserts and stores the result.
func (h *MemHost) Commit(ctx context.Context, rec *Recorder) ([]byte, error) {
	if err := rec.checkOwner(h); err != nil {
		return nil, err
	}
	original, err := h.Read(rec.Path())
	if err != nil {
		return nil, err
	}
	modified, err := render(rec, original)
	if err != nil {
		return nil, err
	}
	h.Write(rec.Path(), string(modified))
	return modified, nil
}
