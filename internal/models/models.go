// Package models provides example right-hand sides for the CLI and
// tests. Each model maps (t, u) to du/dt; the stage index of the
// right-hand-side contract is ignored here.
package models

import (
	"fmt"
	"sort"

	"github.com/san-kum/odelab/internal/ode"
)

// Model is a named right-hand side with a default initial state.
type Model interface {
	Name() string
	Dim() int
	RHS(t float64, u ode.State, stage int) ode.State
	InitState() ode.State
}

var registry = map[string]func() Model{
	"decay":      func() Model { return NewDecay() },
	"oscillator": func() Model { return NewOscillator() },
	"vanderpol":  func() Model { return NewVanDerPol() },
	"lorenz":     func() Model { return NewLorenz() },
}

// ByName returns a fresh model instance for a registered name.
func ByName(name string) (Model, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("models: unknown model: %s", name)
	}
	return fn(), nil
}

// Names lists the registered model names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
