package lifetime

import (
	"errors"
	"fmt"
)

// Validation errors for lifetime records.
var (
	// ErrLengthMismatch indicates time, event and entry have different lengths.
	ErrLengthMismatch = errors.New("lifetime: time, event and entry lengths differ")

	// ErrEmpty indicates a record set without any unit.
	ErrEmpty = errors.New("lifetime: no units")

	// ErrInvalidTime indicates a non-positive or non-finite observation time.
	ErrInvalidTime = errors.New("lifetime: time must be positive and finite")

	// ErrInvalidEntry indicates a negative entry age or one not below the time.
	ErrInvalidEntry = errors.New("lifetime: entry must be in [0, time)")
)

// RecordError wraps a validation error with the offending unit index.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("unit %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
