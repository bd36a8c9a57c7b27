package driver

import (
	"errors"
	"fmt"
)

// Fatal integration conditions. All of them surface to the caller; only
// step rejection under adaptive control is handled locally.
var (
	// ErrStepUnderflow indicates the adaptive step size shrank below the
	// precision floor without producing an acceptable step.
	ErrStepUnderflow = errors.New("driver: step size below precision floor")

	// ErrNonFinite indicates the right-hand side produced NaN or Inf.
	ErrNonFinite = errors.New("driver: non-finite value in step")

	// ErrMaxSteps indicates the step budget ran out before reaching the
	// end of the time span.
	ErrMaxSteps = errors.New("driver: maximum step count exceeded")
)

// StepError tags a fatal condition with the time and step size at which
// it occurred.
type StepError struct {
	Step    int
	Time    float64
	Dt      float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%g, dt=%g): %v", e.Step, e.Time, e.Dt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
