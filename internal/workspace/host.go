package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/getlawrence/injectgen/internal/codegen/edit"
)

var (
	// ErrNotExist is returned by Read when the file is absent.
	ErrNotExist = errors.New("file does not exist")
	// ErrLockTimeout is returned when exclusive access cannot be obtained in time.
	ErrLockTimeout = errors.New("timeout acquiring file lock")
	// ErrForeignRecorder is returned when a recorder is committed to another host.
	ErrForeignRecorder = errors.New("recorder was not created by this host")
)

// Host is the storage seen by the injector: read a file, record inserts
// against its current content and commit them in one step.
type Host interface {
	// Lock grants exclusive access to path until the returned release func is called.
	Lock(ctx context.Context, path string) (release func() error, err error)
	// Read returns the file content or ErrNotExist.
	Read(path string) ([]byte, error)
	// BeginEdit starts an edit session for path.
	BeginEdit(path string) *Recorder
	// Commit applies every insert of rec and returns the resulting bytes.
	Commit(ctx context.Context, rec *Recorder) ([]byte, error)
}

// Recorder accumulates inserts for one file. Offsets refer to the content the
// file had when the session began.
type Recorder struct {
	owner Host
	batch *edit.Batch
}

func newRecorder(owner Host, path string) *Recorder {
	return &Recorder{owner: owner, batch: edit.NewBatch(path)}
}

// Path returns the file being edited.
func (r *Recorder) Path() string { return r.batch.Path() }

// Insert records text to be inserted at offset.
func (r *Recorder) Insert(offset int, text string) error {
	return r.batch.Insert(edit.KindInsert, offset, text)
}

// Apply records a planned directive.
func (r *Recorder) Apply(directives ...edit.Directive) error {
	return r.batch.Add(directives...)
}

// Batch exposes the recorded directives.
func (r *Recorder) Batch() *edit.Batch { return r.batch }

func (r *Recorder) checkOwner(h Host) error {
	if r == nil || r.owner != h {
		return ErrForeignRecorder
	}
	return nil
}

func render(rec *Recorder, original []byte) ([]byte, error) {
	out, err := rec.batch.Apply(original)
	if err != nil {
		return nil, fmt.Errorf("failed to apply edits to %s: %w", rec.Path(), err)
	}
	return out, nil
}
