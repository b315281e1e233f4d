package assemble

import (
	"fmt"

	"reggen/internal/width"
)

// UnsupportedWidthError reports a register whose declared size is not one of
// the storage widths. It is raised before any artifact is touched.
type UnsupportedWidthError struct {
	Register string
	Size     int
}

func (e *UnsupportedWidthError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("register %q: unsupported width %d (expected 8, 16, 32 or 64)", e.Register, e.Size)
}

// IOOp names the artifact operation that failed.
type IOOp uint8

const (
	// OpCreate is a truncate-and-write of a base or family artifact.
	OpCreate IOOp = iota + 1
	OpOpen
	OpAppend
	OpRender
)

func (op IOOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpOpen:
		return "open"
	case OpAppend:
		return "append"
	case OpRender:
		return "render"
	default:
		return "io"
	}
}

// ArtifactIOError wraps a failure to produce or update an artifact.
type ArtifactIOError struct {
	Op       IOOp
	Artifact string
	Register string      // empty for InitializeFamily failures
	Width    width.Width // zero when not tied to one width
	Err      error
}

func (e *ArtifactIOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	subject := e.Artifact
	if e.Register != "" {
		subject = fmt.Sprintf("%s (register %s)", e.Artifact, e.Register)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, subject, e.Err)
	}
	return fmt.Sprintf("%s %s failed", e.Op, subject)
}

func (e *ArtifactIOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
