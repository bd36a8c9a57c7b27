package models

import "github.com/san-kum/odelab/internal/ode"

// VanDerPol is the Van der Pol oscillator. Larger Mu makes the problem
// stiffer, which drives heavy step rejection in adaptive runs.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{Mu: 1.0}
}

func (v *VanDerPol) Name() string { return "vanderpol" }
func (v *VanDerPol) Dim() int     { return 2 }

func (v *VanDerPol) RHS(t float64, u ode.State, stage int) ode.State {
	return ode.State{
		u[1],
		v.Mu*(1-u[0]*u[0])*u[1] - u[0],
	}
}

func (v *VanDerPol) InitState() ode.State {
	return ode.State{2.0, 0.0}
}
