// Package store persists integration runs: a metadata JSON plus the
// trajectory as CSV, one directory per run.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/odelab/internal/driver"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Model       string    `json:"model"`
	Method      string    `json:"method"`
	Timestamp   time.Time `json:"timestamp"`
	T0          float64   `json:"t0"`
	T1          float64   `json:"t1"`
	AbsTol      float64   `json:"abs_tol"`
	RelTol      float64   `json:"rel_tol"`
	Accepted    int       `json:"accepted"`
	Rejected    int       `json:"rejected"`
	Evaluations int       `json:"evaluations"`
}

// Save writes one run under a fresh run ID and returns the ID.
func (s *Store) Save(model, method string, t0, t1, atol, rtol float64, sol *driver.Solution) (string, error) {
	runID := fmt.Sprintf("%s_%s_%d", model, method, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Model:       model,
		Method:      method,
		Timestamp:   time.Now(),
		T0:          t0,
		T1:          t1,
		AbsTol:      atol,
		RelTol:      rtol,
		Accepted:    sol.Stats.Accepted,
		Rejected:    sol.Stats.Rejected,
		Evaluations: sol.Stats.Evaluations,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeTrajectory(filepath.Join(runDir, "trajectory.csv"), sol); err != nil {
		return "", err
	}

	return runID, nil
}

func writeTrajectory(path string, sol *driver.Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// A run without a saved trajectory still records its endpoint.
	ts, us := sol.Ts, sol.Us
	if len(ts) == 0 {
		ts = []float64{sol.T}
		us = append(us, sol.U)
	}

	header := []string{"time"}
	for i := range us[0] {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range ts {
		row := []string{strconv.FormatFloat(ts[i], 'g', -1, 64)}
		for _, v := range us[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// List returns the metadata of every stored run.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads a run's trajectory back as times and state rows.
func (s *Store) LoadTrajectory(runID string) ([]float64, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("store: empty trajectory for run %s", runID)
	}

	ts := make([]float64, 0, len(rows)-1)
	us := make([][]float64, 0, len(rows)-1)
	for _, row := range rows[1:] {
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, nil, err
		}
		u := make([]float64, len(row)-1)
		for i, cell := range row[1:] {
			if u[i], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, nil, err
			}
		}
		ts = append(ts, t)
		us = append(us, u)
	}
	return ts, us, nil
}
