package injector

import "fmt"

// Causes carried by StructureError.
const (
	CauseNoClass           = "no class found"
	CauseClassNameMismatch = "class name mismatch"
	CauseNoClassBody       = "no class body"
	CauseNoParameterList   = "missing parameter list"
	CauseImportAfterClass  = "import insertion point is not above the class body"
	CauseDetachedNode      = "node has no parent"
	CauseMalformedSource   = "malformed source"
)

// StructureError reports that a file does not have the shape the injector
// expects. It is permanent for a given file; retrying will not help.
type StructureError struct {
	Path   string
	Cause  string
	Detail string
	Err    error
}

func (e *StructureError) Error() string {
	msg := e.Cause
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return msg
}

func (e *StructureError) Unwrap() error { return e.Err }

// Is matches another StructureError with the same cause, so callers can write
// errors.Is(err, &StructureError{Cause: CauseNoClass}).
func (e *StructureError) Is(target error) bool {
	t, ok := target.(*StructureError)
	return ok && t.Cause == e.Cause
}

func structureErrorf(path, cause, format string, args ...interface{}) *StructureError {
	return &StructureError{Path: path, Cause: cause, Detail: fmt.Sprintf(format, args...)}
}
