package ode

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadTSpan indicates a time span that is not a (t0, t1) pair with
	// distinct endpoints.
	ErrBadTSpan = errors.New("ode: tspan must be two distinct times")

	// ErrEmptyState indicates an initial state with no components.
	ErrEmptyState = errors.New("ode: initial state must have at least one component")
)

// Problem is a normalized initial-value problem: integrate du/dt = F(t, u)
// from T0 to T1 starting at U0. It is immutable once built; F is an opaque
// handle and takes no part in comparing problems.
type Problem struct {
	F  Func
	T0 float64
	T1 float64
	U0 State
}

// NewProblem validates and normalizes an initial-value problem. tspan must
// hold exactly the two endpoints; u0 must be at least one-dimensional.
func NewProblem(f Func, tspan []float64, u0 State) (*Problem, error) {
	if len(tspan) != 2 {
		return nil, fmt.Errorf("%w: got %d elements", ErrBadTSpan, len(tspan))
	}
	if tspan[0] == tspan[1] {
		return nil, fmt.Errorf("%w: t0 == t1 == %g", ErrBadTSpan, tspan[0])
	}
	if len(u0) == 0 {
		return nil, ErrEmptyState
	}
	return &Problem{F: f, T0: tspan[0], T1: tspan[1], U0: u0.Clone()}, nil
}

// NewScalarProblem promotes a scalar initial condition to a one-component
// state, so downstream arithmetic can assume at least one dimension.
func NewScalarProblem(f Func, tspan []float64, u0 float64) (*Problem, error) {
	return NewProblem(f, tspan, State{u0})
}

// Span returns the signed length of the integration interval.
func (p *Problem) Span() float64 {
	return p.T1 - p.T0
}

// Direction is +1 for forward integration, -1 for backward.
func (p *Problem) Direction() float64 {
	if p.T1 < p.T0 {
		return -1
	}
	return 1
}

// DTMin is the smallest usable step magnitude for float64 stepping. With
// useEndTime it is the larger ulp spacing at the two endpoints, so the
// floor grows with the magnitude of the times involved; otherwise it is
// the machine-epsilon constant floor.
func (p *Problem) DTMin(useEndTime bool) float64 {
	if !useEndTime {
		return ulp(1.0)
	}
	return math.Max(ulp(p.T0), ulp(p.T1))
}

// ulp is the spacing between |x| and the next float64 toward +Inf.
func ulp(x float64) float64 {
	x = math.Abs(x)
	return math.Nextafter(x, math.Inf(1)) - x
}
