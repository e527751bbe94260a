package estimators

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStrategy indicates a strategy name outside the catalog.
	ErrUnknownStrategy = errors.New("estimators: unknown strategy")

	// ErrNoEvents indicates a data set without any observed failure.
	ErrNoEvents = errors.New("estimators: no observed failures")

	// ErrNotConverged indicates the likelihood maximisation failed.
	ErrNotConverged = errors.New("estimators: maximum likelihood did not converge")
)

// FitError wraps a fit failure with the strategy that produced it.
type FitError struct {
	Strategy Strategy
	Err      error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("fit %s: %v", e.Strategy, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}
