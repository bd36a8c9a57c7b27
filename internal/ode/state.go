package ode

import "math"

// State is a dense vector of degrees of freedom being integrated.
type State []float64

// Func is the right-hand side of du/dt = f(t, u). The stage index is
// informational: stage-dependent right-hand sides (for example ones that
// cache expensive intermediates per stage) may use it, everyone else can
// ignore it.
type Func func(t float64, u State, stage int) State

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + other[i]
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] - other[i]
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// AXPY accumulates a*x into s in place and returns s.
func (s State) AXPY(a float64, x State) State {
	for i := range s {
		s[i] += a * x[i]
	}
	return s
}

// Zeros returns a zero state of dimension n.
func Zeros(n int) State {
	return make(State, n)
}
