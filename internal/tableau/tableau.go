// Package tableau implements explicit Runge-Kutta methods as Butcher
// tableaus: the (a, b, c) coefficient set of a scheme plus the algorithm
// that turns the coefficients and a right-hand side into one time step,
// with or without an embedded error estimate.
package tableau

import (
	"errors"
	"fmt"

	"github.com/san-kum/odelab/internal/ode"
)

// ErrNotAdaptive indicates a request for error-controlled stepping on a
// tableau without an embedded estimate. It is a caller mistake, never a
// numerical condition, and is never retried.
var ErrNotAdaptive = errors.New("tableau: method has no embedded error estimate")

// Tableau describes one explicit Runge-Kutta scheme. A is the strictly
// lower-triangular stage coefficient matrix, B holds one weight row for a
// fixed-step method or two rows (primary, embedded) for an adaptive pair,
// C the stage time offsets with C[0] == 0. CError, when set, is a
// dedicated error-weight vector used instead of differencing the B rows.
//
// A Tableau is built once and never mutated; it may be shared read-only
// across any number of concurrent integrations.
type Tableau struct {
	Name   string
	Order  []int
	A      [][]float64
	B      [][]float64
	C      []float64
	CError []float64
}

// Stages is the number of right-hand-side evaluations per step.
func (tb *Tableau) Stages() int {
	return len(tb.C)
}

// IsExplicit reports whether A is strictly lower triangular, i.e. no stage
// depends on itself or a later stage.
func (tb *Tableau) IsExplicit() bool {
	for i, row := range tb.A {
		for j := i; j < len(row); j++ {
			if row[j] != 0 {
				return false
			}
		}
	}
	return true
}

// IsAdaptive reports whether B carries a primary and an embedded weight
// row, enabling error-controlled stepping.
func (tb *Tableau) IsAdaptive() bool {
	return len(tb.B) == 2
}

// IsFSAL reports the "first same as last" property: the final stage of one
// step evaluates the right-hand side at the same point as the first stage
// of the next, so that evaluation can be reused across accepted steps.
func (tb *Tableau) IsFSAL() bool {
	s := tb.Stages()
	if tb.C[s-1] != 1 {
		return false
	}
	for j := 0; j < s; j++ {
		if tb.A[s-1][j] != tb.B[0][j] {
			return false
		}
	}
	return true
}

// StepResult carries the outcome of one step attempt. First and Last are
// the first- and last-stage derivatives, cached by the driver for FSAL
// reuse; Err is nil for plain steps.
type StepResult struct {
	U     ode.State
	Err   ode.State
	First ode.State
	Last  ode.State
	Evals int
}

// evalStages computes the stage derivatives k[0..s-1] in order. Stage l
// depends only on stages 0..l-1, so the recurrence is sequential by
// construction. reuseFirst, when non-nil, substitutes for the stage-0
// evaluation.
func (tb *Tableau) evalStages(f ode.Func, t, dt float64, u ode.State, reuseFirst ode.State) ([]ode.State, int) {
	s := tb.Stages()
	ks := make([]ode.State, s)
	evals := 0
	for l := 0; l < s; l++ {
		if l == 0 && reuseFirst != nil {
			ks[0] = reuseFirst
			continue
		}
		ul := u.Clone()
		for j := 0; j < l; j++ {
			if a := tb.A[l][j]; a != 0 {
				ul.AXPY(dt*a, ks[j])
			}
		}
		ks[l] = f(t+tb.C[l]*dt, ul, l)
		evals++
	}
	return ks, evals
}

// combine forms u + dt * (w . ks).
func combine(u ode.State, dt float64, w []float64, ks []ode.State) ode.State {
	out := u.Clone()
	for l, k := range ks {
		if w[l] != 0 {
			out.AXPY(dt*w[l], k)
		}
	}
	return out
}

// Step advances u by one fixed step of size dt using the primary weight
// row. reuseFirst, when non-nil, is a previously computed first-stage
// derivative (FSAL).
func (tb *Tableau) Step(f ode.Func, t, dt float64, u ode.State, reuseFirst ode.State) StepResult {
	ks, evals := tb.evalStages(f, t, dt, u, reuseFirst)
	return StepResult{
		U:     combine(u, dt, tb.B[0], ks),
		First: ks[0],
		Last:  ks[len(ks)-1],
		Evals: evals,
	}
}

// StepWithError advances u and additionally returns the local error
// estimate of the embedded pair: dt * (B[0]-B[1]) . ks, or dt * CError . ks
// when the tableau carries dedicated error coefficients. Acceptance is the
// driver's decision, not taken here.
func (tb *Tableau) StepWithError(f ode.Func, t, dt float64, u ode.State, reuseFirst ode.State) (StepResult, error) {
	if !tb.IsAdaptive() {
		return StepResult{}, fmt.Errorf("%w: %s", ErrNotAdaptive, tb.Name)
	}
	ks, evals := tb.evalStages(f, t, dt, u, reuseFirst)

	errEst := ode.Zeros(len(u))
	if tb.CError != nil {
		for l, k := range ks {
			if tb.CError[l] != 0 {
				errEst.AXPY(dt*tb.CError[l], k)
			}
		}
	} else {
		for l, k := range ks {
			if d := tb.B[0][l] - tb.B[1][l]; d != 0 {
				errEst.AXPY(dt*d, k)
			}
		}
	}

	return StepResult{
		U:     combine(u, dt, tb.B[0], ks),
		Err:   errEst,
		First: ks[0],
		Last:  ks[len(ks)-1],
		Evals: evals,
	}, nil
}
