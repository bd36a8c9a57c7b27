package store

import (
	"testing"

	"github.com/san-kum/odelab/internal/driver"
	"github.com/san-kum/odelab/internal/ode"
)

func sampleSolution() *driver.Solution {
	return &driver.Solution{
		T:  1.0,
		U:  ode.State{0.5, -0.25},
		Ts: []float64{0, 0.5, 1.0},
		Us: []ode.State{{1, 0}, {0.75, -0.1}, {0.5, -0.25}},
		Stats: driver.Stats{
			Accepted:    2,
			Rejected:    1,
			Evaluations: 18,
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := s.Save("oscillator", "dopri", 0, 1.0, 1e-7, 1e-7, sampleSolution())
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run ID")
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Model != "oscillator" || meta.Method != "dopri" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Accepted != 2 || meta.Rejected != 1 || meta.Evaluations != 18 {
		t.Errorf("stats mismatch: %+v", meta)
	}
	if meta.T1 != 1.0 {
		t.Errorf("expected t1 1, got %g", meta.T1)
	}
}

func TestLoadTrajectory(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := s.Save("oscillator", "rk4", 0, 1.0, 1e-7, 1e-7, sampleSolution())
	if err != nil {
		t.Fatal(err)
	}

	ts, us, err := s.LoadTrajectory(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 3 || len(us) != 3 {
		t.Fatalf("expected 3 rows, got %d times, %d states", len(ts), len(us))
	}
	if ts[0] != 0 || ts[2] != 1.0 {
		t.Errorf("time endpoints mismatch: %v", ts)
	}
	if us[2][0] != 0.5 || us[2][1] != -0.25 {
		t.Errorf("final state mismatch: %v", us[2])
	}
}

func TestSaveWithoutTrajectory(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	sol := &driver.Solution{
		T:     2.0,
		U:     ode.State{0.1},
		Stats: driver.Stats{Accepted: 5},
	}
	runID, err := s.Save("decay", "rk4", 0, 2.0, 1e-7, 1e-7, sol)
	if err != nil {
		t.Fatal(err)
	}

	ts, us, err := s.LoadTrajectory(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ts) != 1 || ts[0] != 2.0 {
		t.Errorf("expected single endpoint row at t=2, got %v", ts)
	}
	if us[0][0] != 0.1 {
		t.Errorf("endpoint state mismatch: %v", us[0])
	}
}

func TestList(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Save("decay", "rk4", 0, 1.0, 1e-7, 1e-7, sampleSolution()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save("lorenz", "dopri", 0, 40.0, 1e-8, 1e-8, sampleSolution()); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestListEmptyBaseDir(t *testing.T) {
	s := New(t.TempDir() + "/never-created")

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("no_such_run"); err == nil {
		t.Error("expected error for unknown run")
	}
}
