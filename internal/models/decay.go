package models

import "github.com/san-kum/odelab/internal/ode"

// Decay is exponential decay du/dt = -Lambda * u, with the closed-form
// solution u(t) = u0 * exp(-Lambda t).
type Decay struct {
	Lambda float64
}

func NewDecay() *Decay {
	return &Decay{Lambda: 1.0}
}

func (d *Decay) Name() string { return "decay" }
func (d *Decay) Dim() int     { return 1 }

func (d *Decay) RHS(t float64, u ode.State, stage int) ode.State {
	return u.Scale(-d.Lambda)
}

func (d *Decay) InitState() ode.State {
	return ode.State{1.0}
}
