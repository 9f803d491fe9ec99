package utils

import "fmt"

// ErrorKind is the error taxonomy every public operation reports through.
type ErrorKind uint8

const (
	// KindOK is never attached to a returned error; it exists so the zero
	// value of ErrorKind prints something sane if ever logged directly.
	KindOK ErrorKind = iota
	KindError
	KindMalformed
	KindRange
	KindNotFound
	KindIOError
	KindOutOfMemory
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindError:
		return "ERROR"
	case KindMalformed:
		return "MALFORMED"
	case KindRange:
		return "RANGE"
	case KindNotFound:
		return "NOT_FOUND"
	case KindIOError:
		return "IO_ERROR"
	case KindOutOfMemory:
		return "OUT_OF_MEMORY"
	case KindUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// PCError is a structured error carrying an ErrorKind, a human context
// string, and the wrapped cause (if any).
type PCError struct {
	Kind    ErrorKind
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *PCError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap() / errors.Is().
func (e *PCError) Unwrap() error {
	return e.Cause
}

// New builds a PCError with no wrapped cause.
func New(kind ErrorKind, context string) error {
	return &PCError{Kind: kind, Context: context}
}

// Wrap attaches a kind and context to an existing error. Returns nil if
// cause is nil.
func Wrap(kind ErrorKind, context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &PCError{Kind: kind, Context: context, Cause: cause}
}

// KindOf extracts the ErrorKind from err by walking Unwrap, or KindError
// if err does not carry one.
func KindOf(err error) ErrorKind {
	for err != nil {
		if p, ok := err.(*PCError); ok {
			return p.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindError
}
