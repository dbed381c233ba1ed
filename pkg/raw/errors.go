package raw

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when the buffer does not start with the EVTC marker.
	ErrBadMagic = errors.New("raw: bad magic marker")

	// ErrTruncated is returned when a declared count or record size exceeds the remaining bytes.
	ErrTruncated = errors.New("raw: truncated input")

	// ErrUnsupportedRevision marks a revision byte newer than this decoder knows.
	// It is recorded as a warning, never returned as a fatal error.
	ErrUnsupportedRevision = errors.New("raw: unsupported revision")

	// ErrInvalidText marks a name buffer whose used portion is not valid UTF-8.
	// The affected name truncates to its valid prefix; decoding continues.
	ErrInvalidText = errors.New("raw: invalid text in name buffer")
)

// StructuralError is a fatal decode failure with enough position context to
// diagnose a corrupt capture.
type StructuralError struct {
	Err       error
	Offset    int
	Expected  int
	Available int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v at offset %d: need %d bytes, have %d", e.Err, e.Offset, e.Expected, e.Available)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
