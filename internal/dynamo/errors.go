package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors shared by the numerical and lesson packages.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside its range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParameter indicates a parameter name the model does not declare.
	ErrUnknownParameter = errors.New("dynamo: unknown parameter")

	// ErrInvalidParameter indicates a malformed parameter declaration.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter declaration")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrTooManySteps indicates the integrator hit its step budget.
	ErrTooManySteps = errors.New("dynamo: step budget exhausted")

	// ErrNoBracket indicates a root search interval without a sign change.
	ErrNoBracket = errors.New("dynamo: f(a) and f(b) must have different signs")

	// ErrNoConvergence indicates an iterative solver hit its iteration limit.
	ErrNoConvergence = errors.New("dynamo: solver did not converge")

	// ErrDataFormat indicates malformed input data.
	ErrDataFormat = errors.New("dynamo: malformed data")
)

// SimulationError wraps an error with integration context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
