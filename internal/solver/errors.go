package solver

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownEquation = errors.New("solver: unknown equation")
	ErrUnknownMethod   = errors.New("solver: unknown integration method")
	ErrUnknownParam    = errors.New("solver: unknown parameter")
	ErrParameterBounds = errors.New("solver: parameter out of valid bounds")
	ErrTimeSpan        = errors.New("solver: t1 must be greater than t0")
	ErrStep            = errors.New("solver: step must be positive")
	ErrDimension       = errors.New("solver: initial state has the wrong dimension")
	ErrUnstable        = errors.New("solver: state diverged (NaN or Inf detected)")
)

// SolveError adds the step and time at which integration failed.
type SolveError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("step %d (t=%g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
