package label

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// KindDocument means the source PDF could not be parsed or has no pages.
	KindDocument ErrorKind = iota
	// KindEncoding means a barcode payload is outside the Code128 character set.
	KindEncoding
	// KindRenderResource means a requested render resource (font file) was
	// unavailable. The pipeline falls back to the embedded font instead of
	// failing, so this kind only surfaces when the fallback itself breaks.
	KindRenderResource
)

func (k ErrorKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindEncoding:
		return "encoding"
	case KindRenderResource:
		return "render_resource"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure tagged with its kind. A failed stage aborts
// only the artifact being produced; callers decide how to report it.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err is a pipeline Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
