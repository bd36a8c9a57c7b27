package tableau

import (
	"fmt"
	"sort"
)

// FEuler is the forward Euler method, order 1.
func FEuler() *Tableau {
	return &Tableau{
		Name:  "feuler",
		Order: []int{1},
		A:     [][]float64{{0}},
		B:     [][]float64{{1}},
		C:     []float64{0},
	}
}

// Midpoint is the explicit midpoint method, order 2.
func Midpoint() *Tableau {
	return &Tableau{
		Name:  "midpoint",
		Order: []int{2},
		A: [][]float64{
			{0, 0},
			{1.0 / 2.0, 0},
		},
		B: [][]float64{{0, 1}},
		C: []float64{0, 1.0 / 2.0},
	}
}

// Heun is Heun's method (explicit trapezoid), order 2.
func Heun() *Tableau {
	return &Tableau{
		Name:  "heun",
		Order: []int{2},
		A: [][]float64{
			{0, 0},
			{1, 0},
		},
		B: [][]float64{{1.0 / 2.0, 1.0 / 2.0}},
		C: []float64{0, 1},
	}
}

// RK4 is the classical fourth-order Runge-Kutta method.
func RK4() *Tableau {
	return &Tableau{
		Name:  "rk4",
		Order: []int{4},
		A: [][]float64{
			{0, 0, 0, 0},
			{1.0 / 2.0, 0, 0, 0},
			{0, 1.0 / 2.0, 0, 0},
			{0, 0, 1, 0},
		},
		B: [][]float64{{1.0 / 6.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 6.0}},
		C: []float64{0, 1.0 / 2.0, 1.0 / 2.0, 1},
	}
}

// RK12 is the adaptive Heun-Euler pair, orders (2, 1).
func RK12() *Tableau {
	return &Tableau{
		Name:  "rk21",
		Order: []int{2, 1},
		A: [][]float64{
			{0, 0},
			{1, 0},
		},
		B: [][]float64{
			{1.0 / 2.0, 1.0 / 2.0},
			{1, 0},
		},
		C: []float64{0, 1},
	}
}

// RK23 is the Bogacki-Shampine adaptive pair, orders (2, 3).
func RK23() *Tableau {
	return &Tableau{
		Name:  "rk23",
		Order: []int{2, 3},
		A: [][]float64{
			{0, 0, 0, 0},
			{1.0 / 2.0, 0, 0, 0},
			{0, 3.0 / 4.0, 0, 0},
			{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0, 0},
		},
		B: [][]float64{
			{7.0 / 24.0, 1.0 / 4.0, 1.0 / 3.0, 1.0 / 8.0},
			{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0, 0},
		},
		C: []float64{0, 1.0 / 2.0, 3.0 / 4.0, 1},
	}
}

// Fehlberg is the Runge-Kutta-Fehlberg adaptive pair RKF45, orders (4, 5).
func Fehlberg() *Tableau {
	return &Tableau{
		Name:  "fehlberg",
		Order: []int{4, 5},
		A: [][]float64{
			{0, 0, 0, 0, 0, 0},
			{1.0 / 4.0, 0, 0, 0, 0, 0},
			{3.0 / 32.0, 9.0 / 32.0, 0, 0, 0, 0},
			{1932.0 / 2197.0, -7200.0 / 2197.0, 7296.0 / 2197.0, 0, 0, 0},
			{439.0 / 216.0, -8, 3680.0 / 513.0, -845.0 / 4104.0, 0, 0},
			{-8.0 / 27.0, 2, -3544.0 / 2565.0, 1859.0 / 4104.0, -11.0 / 40.0, 0},
		},
		B: [][]float64{
			{25.0 / 216.0, 0, 1408.0 / 2565.0, 2197.0 / 4104.0, -1.0 / 5.0, 0},
			{16.0 / 135.0, 0, 6656.0 / 12825.0, 28561.0 / 56430.0, -9.0 / 50.0, 2.0 / 55.0},
		},
		C: []float64{0, 1.0 / 4.0, 3.0 / 8.0, 12.0 / 13.0, 1, 1.0 / 2.0},
	}
}

// DoPri5 is the Dormand-Prince adaptive pair, orders (5, 4). It is FSAL:
// the seventh stage of an accepted step doubles as the first stage of the
// next one. CError holds the precomputed B-row difference, exercising the
// dedicated-coefficient error path.
func DoPri5() *Tableau {
	return &Tableau{
		Name:  "dopri",
		Order: []int{5, 4},
		A: [][]float64{
			{0, 0, 0, 0, 0, 0, 0},
			{1.0 / 5.0, 0, 0, 0, 0, 0, 0},
			{3.0 / 40.0, 9.0 / 40.0, 0, 0, 0, 0, 0},
			{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0, 0, 0, 0, 0},
			{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0, 0, 0, 0},
			{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0, 0, 0},
			{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0},
		},
		B: [][]float64{
			{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0},
			{5179.0 / 57600.0, 0, 7571.0 / 16695.0, 393.0 / 640.0, -92097.0 / 339200.0, 187.0 / 2100.0, 1.0 / 40.0},
		},
		C:      []float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1},
		CError: []float64{71.0 / 57600.0, 0, -71.0 / 16695.0, 71.0 / 1920.0, -17253.0 / 339200.0, 22.0 / 525.0, -1.0 / 40.0},
	}
}

var methods = map[string]func() *Tableau{
	"feuler":   FEuler,
	"midpoint": Midpoint,
	"heun":     Heun,
	"rk4":      RK4,
	"rk21":     RK12,
	"rk23":     RK23,
	"fehlberg": Fehlberg,
	"dopri":    DoPri5,
}

// ByName returns a fresh tableau for a registered method name.
func ByName(name string) (*Tableau, error) {
	fn, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("tableau: unknown method: %s", name)
	}
	return fn(), nil
}

// Names lists the registered method names in sorted order.
func Names() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
