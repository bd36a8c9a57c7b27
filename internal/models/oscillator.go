package models

import "github.com/san-kum/odelab/internal/ode"

// Oscillator is the undamped harmonic oscillator in (position, velocity)
// form with angular frequency Omega.
type Oscillator struct {
	Omega float64
}

func NewOscillator() *Oscillator {
	return &Oscillator{Omega: 1.0}
}

func (o *Oscillator) Name() string { return "oscillator" }
func (o *Oscillator) Dim() int     { return 2 }

func (o *Oscillator) RHS(t float64, u ode.State, stage int) ode.State {
	return ode.State{u[1], -o.Omega * o.Omega * u[0]}
}

func (o *Oscillator) InitState() ode.State {
	return ode.State{1.0, 0.0}
}

// Energy is the conserved quantity 0.5*(v^2 + omega^2 x^2), handy for
// checking integrator drift.
func (o *Oscillator) Energy(u ode.State) float64 {
	return 0.5 * (u[1]*u[1] + o.Omega*o.Omega*u[0]*u[0])
}
