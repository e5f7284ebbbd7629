package edit

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrOffsetOutOfRange is returned when a directive points outside the source.
	ErrOffsetOutOfRange = errors.New("edit offset out of range")
	// ErrPathMismatch is returned when a directive targets another file than its batch.
	ErrPathMismatch = errors.New("edit directive targets a different file")
)

// Kind describes what a directive inserts
type Kind string

const (
	KindNoop           Kind = "noop"
	KindInsert         Kind = "insert"
	KindAddConstructor Kind = "add_constructor"
	KindAddParameter   Kind = "add_parameter"
	KindAddImport      Kind = "add_import"
	KindExtendImport   Kind = "extend_import"
)

// Directive inserts Text at byte Offset of Path. Every other byte is left
// untouched. A directive with empty text has no effect.
type Directive struct {
	Kind   Kind   `json:"kind"`
	Path   string `json:"path,omitempty"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// Noop returns a directive that changes nothing.
func Noop(path string) Directive {
	return Directive{Kind: KindNoop, Path: path}
}

// IsNoop reports whether applying d leaves the file unchanged.
func (d Directive) IsNoop() bool { return d.Text == "" }

func (d Directive) String() string {
	if d.IsNoop() {
		return fmt.Sprintf("%s %s", KindNoop, d.Path)
	}
	return fmt.Sprintf("%s %s@%d %q", d.Kind, d.Path, d.Offset, d.Text)
}

// Batch collects the directives for one file. Offsets always refer to the
// original text; Apply orders them by ascending offset before inserting, so
// the order directives were added in does not matter. Directives sharing an
// offset keep the order they were added in.
type Batch struct {
	path       string
	directives []Directive
}

// NewBatch creates an empty batch for path.
func NewBatch(path string) *Batch {
	return &Batch{path: path}
}

// Path returns the file the batch targets.
func (b *Batch) Path() string { return b.path }

// Add appends directives. A directive without a path is adopted by the batch.
func (b *Batch) Add(directives ...Directive) error {
	for _, d := range directives {
		if d.Path != "" && d.Path != b.path {
			return fmt.Errorf("%w: %s is not %s", ErrPathMismatch, d.Path, b.path)
		}
		if d.Offset < 0 {
			return fmt.Errorf("%w: %d", ErrOffsetOutOfRange, d.Offset)
		}
		d.Path = b.path
		b.directives = append(b.directives, d)
	}
	return nil
}

// Insert is shorthand for adding a single directive of the given kind.
func (b *Batch) Insert(kind Kind, offset int, text string) error {
	return b.Add(Directive{Kind: kind, Path: b.path, Offset: offset, Text: text})
}

// Len returns the number of directives, no-ops included.
func (b *Batch) Len() int { return len(b.directives) }

// Empty reports whether applying the batch would change nothing.
func (b *Batch) Empty() bool {
	for _, d := range b.directives {
		if !d.IsNoop() {
			return false
		}
	}
	return true
}

// Directives returns the effective directives in application order.
func (b *Batch) Directives() []Directive {
	ordered := make([]Directive, 0, len(b.directives))
	for _, d := range b.directives {
		if !d.IsNoop() {
			ordered = append(ordered, d)
		}
	}
	slices.SortStableFunc(ordered, func(a, b Directive) int {
		return a.Offset - b.Offset
	})
	return ordered
}

// Apply inserts every directive into src and returns the new buffer. src is
// not modified. The batch fails as a whole if any offset is past the end.
func (b *Batch) Apply(src []byte) ([]byte, error) {
	ordered := b.Directives()

	grow := 0
	for _, d := range ordered {
		if d.Offset > len(src) {
			return nil, fmt.Errorf("%w: %d beyond %d bytes of %s", ErrOffsetOutOfRange, d.Offset, len(src), b.path)
		}
		grow += len(d.Text)
	}

	out := make([]byte, 0, len(src)+grow)
	prev := 0
	for _, d := range ordered {
		out = append(out, src[prev:d.Offset]...)
		out = append(out, d.Text...)
		prev = d.Offset
	}
	out = append(out, src[prev:]...)
	return out, nil
}
