package models

import "github.com/san-kum/odelab/internal/ode"

// Lorenz is the Lorenz attractor with the classic chaotic parameters.
type Lorenz struct {
	Sigma float64
	Rho   float64
	Beta  float64
}

func NewLorenz() *Lorenz {
	return &Lorenz{Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0}
}

func (l *Lorenz) Name() string { return "lorenz" }
func (l *Lorenz) Dim() int     { return 3 }

func (l *Lorenz) RHS(t float64, u ode.State, stage int) ode.State {
	x, y, z := u[0], u[1], u[2]
	return ode.State{
		l.Sigma * (y - x),
		x*(l.Rho-z) - y,
		x*y - l.Beta*z,
	}
}

func (l *Lorenz) InitState() ode.State {
	return ode.State{1.0, 1.0, 1.0}
}
