package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfiguration indicates a chain that cannot be built or stepped.
	ErrInvalidConfiguration = errors.New("dynamo: invalid chain configuration")

	// ErrInvalidParameter indicates a solver parameter outside its domain.
	ErrInvalidParameter = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnstable indicates the simulation produced NaN or Inf state.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// ParamError names the offending parameter of a rejected Params value.
type ParamError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v: %s = %g (%s)", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// SimError records where a run stopped.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrUnstable
}
