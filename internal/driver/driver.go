// Package driver sequences Runge-Kutta steps to advance an initial-value
// problem from t0 to t1, with adaptive step-size control for tableaus
// that carry an embedded error estimate.
package driver

import (
	"context"
	"math"

	"github.com/san-kum/odelab/internal/ode"
	"github.com/san-kum/odelab/internal/tableau"
)

// DefaultStepCount sizes the default step when no initial dt is given.
const DefaultStepCount = 100

type Config struct {
	// InitialDt, if > 0, is the magnitude of the first step. Otherwise
	// the span divided by DefaultStepCount is used.
	InitialDt float64

	// MaxDt, if > 0, caps the step magnitude under adaptive growth.
	MaxDt float64

	// AbsTol and RelTol weight the error norm for step acceptance.
	AbsTol float64
	RelTol float64

	// Safety, MaxGrowth and MinShrink bound the step-size update factor.
	Safety    float64
	MaxGrowth float64
	MinShrink float64

	// MaxSteps caps the total number of step attempts, accepted and
	// rejected combined.
	MaxSteps int

	// SaveTrajectory records every accepted (t, u) pair in the Solution.
	SaveTrajectory bool
}

func DefaultConfig() Config {
	return Config{
		AbsTol:    1e-7,
		RelTol:    1e-7,
		Safety:    0.9,
		MaxGrowth: 5.0,
		MinShrink: 0.2,
		MaxSteps:  1_000_000,
	}
}

// Stats counts the work done by one integration. All counters increase
// monotonically while the driver runs.
type Stats struct {
	Accepted    int
	Rejected    int
	Evaluations int
	LastDt      float64
	NextDt      float64
}

// Observer is notified after every accepted step.
type Observer interface {
	OnStep(t float64, u ode.State, dt float64)
}

// Solution is the outcome of a completed integration. On success T equals
// the problem's end time exactly. Ts and Us are populated only when the
// trajectory is being saved.
type Solution struct {
	T     float64
	U     ode.State
	Ts    []float64
	Us    []ode.State
	Stats Stats
}

// state is the mutable stepping context: current time, step size, state
// vector, the FSAL stage cache and the running counters. It lives for one
// Solve call and is never shared.
type state struct {
	t, dt float64
	u     ode.State
	lastK ode.State
	stats Stats
}

type Driver struct {
	tab       *tableau.Tableau
	cfg       Config
	observers []Observer
}

func New(tab *tableau.Tableau, cfg Config) *Driver {
	return &Driver{tab: tab, cfg: cfg}
}

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Solve advances the problem from T0 to T1. Cancellation is cooperative
// at step boundaries: a mid-step interrupt is not possible, but the loop
// stops at the end of any completed attempt once ctx is done.
func (d *Driver) Solve(ctx context.Context, p *ode.Problem) (*Solution, error) {
	dir := p.Direction()
	dtMin := p.DTMin(true)
	adaptive := d.tab.IsAdaptive()
	fsal := d.tab.IsFSAL()

	st := &state{t: p.T0, u: p.U0.Clone()}
	st.dt = d.cfg.InitialDt
	if st.dt <= 0 {
		st.dt = math.Abs(p.Span()) / DefaultStepCount
	}
	st.dt *= dir

	sol := &Solution{}
	if d.cfg.SaveTrajectory {
		sol.Ts = append(sol.Ts, st.t)
		sol.Us = append(sol.Us, st.u.Clone())
	}

	steps := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if steps >= d.cfg.MaxSteps {
			return nil, &StepError{Step: steps, Time: st.t, Dt: st.dt, Wrapped: ErrMaxSteps}
		}
		steps++

		// Clamp the last step so it lands exactly on T1.
		h := st.dt
		lastStep := false
		if (st.t+h-p.T1)*dir >= 0 {
			h = p.T1 - st.t
			lastStep = true
		}

		var reuse ode.State
		if fsal {
			reuse = st.lastK
		}

		if adaptive {
			res, err := d.tab.StepWithError(p.F, st.t, h, st.u, reuse)
			if err != nil {
				return nil, err
			}
			st.stats.Evaluations += res.Evals

			if !res.U.IsValid() || !res.Err.IsValid() {
				return nil, &StepError{Step: steps, Time: st.t, Dt: h, Wrapped: ErrNonFinite}
			}

			ratio := errorNorm(res.Err, st.u, res.U, d.cfg.AbsTol, d.cfg.RelTol)
			if ratio > 1 {
				// Reject: shrink strictly, invalidate the FSAL cache and
				// retry without advancing.
				st.stats.Rejected++
				st.lastK = nil
				st.dt = h * d.shrinkFactor(ratio)
				st.stats.NextDt = st.dt
				if math.Abs(st.dt) < dtMin {
					return nil, &StepError{Step: steps, Time: st.t, Dt: st.dt, Wrapped: ErrStepUnderflow}
				}
				continue
			}

			st.dt = d.growStep(h, ratio)
			st.lastK = res.Last
			d.accept(st, sol, res.U, h, lastStep, p.T1)
		} else {
			res := d.tab.Step(p.F, st.t, h, st.u, reuse)
			st.stats.Evaluations += res.Evals

			if !res.U.IsValid() {
				return nil, &StepError{Step: steps, Time: st.t, Dt: h, Wrapped: ErrNonFinite}
			}

			st.lastK = res.Last
			d.accept(st, sol, res.U, h, lastStep, p.T1)
		}

		if lastStep {
			break
		}
	}

	sol.T = st.t
	sol.U = st.u
	sol.Stats = st.stats
	return sol, nil
}

// accept advances the stepping state and records the step.
func (d *Driver) accept(st *state, sol *Solution, uNew ode.State, h float64, lastStep bool, t1 float64) {
	if lastStep {
		st.t = t1
	} else {
		st.t += h
	}
	st.u = uNew
	st.stats.Accepted++
	st.stats.LastDt = h
	st.stats.NextDt = st.dt

	for _, o := range d.observers {
		o.OnStep(st.t, st.u, h)
	}
	if d.cfg.SaveTrajectory {
		sol.Ts = append(sol.Ts, st.t)
		sol.Us = append(sol.Us, st.u.Clone())
	}
}

// growStep scales an accepted step by safety * ratio^(-1/(p+1)), clamped
// to the configured growth interval and MaxDt.
func (d *Driver) growStep(h, ratio float64) float64 {
	var factor float64
	if ratio <= 0 {
		factor = d.cfg.MaxGrowth
	} else {
		factor = d.cfg.Safety * math.Pow(ratio, -1/float64(d.tab.Order[0]+1))
		factor = math.Min(d.cfg.MaxGrowth, math.Max(d.cfg.MinShrink, factor))
	}
	h *= factor
	if d.cfg.MaxDt > 0 && math.Abs(h) > d.cfg.MaxDt {
		h = math.Copysign(d.cfg.MaxDt, h)
	}
	return h
}

// shrinkFactor is the rejection-path update; it is always < 1 so the step
// size strictly decreases on every rejection.
func (d *Driver) shrinkFactor(ratio float64) float64 {
	factor := d.cfg.Safety * math.Pow(ratio, -1/float64(d.tab.Order[0]+1))
	return math.Max(d.cfg.MinShrink, math.Min(d.cfg.Safety, factor))
}

// errorNorm is the tolerance-weighted RMS of the error estimate. A value
// of at most 1 means the step satisfies the configured tolerances.
func errorNorm(errEst, u, uNew ode.State, atol, rtol float64) float64 {
	sum := 0.0
	for i := range errEst {
		scale := atol + rtol*math.Max(math.Abs(u[i]), math.Abs(uNew[i]))
		sum += (errEst[i] / scale) * (errEst[i] / scale)
	}
	return math.Sqrt(sum / float64(len(errEst)))
}
