package workflow

import (
	"errors"
	"fmt"

	"github.com/san-kum/survlab/internal/estimators"
)

var ErrUnknownPolicy = errors.New("workflow: unknown fit policy")

// Failure records a strategy dropped from a figure under PolicySkip.
type Failure struct {
	Strategy estimators.Strategy
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Strategy, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }
