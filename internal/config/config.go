package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMethod = "dopri"
	DefaultModel  = "decay"
	DefaultT1     = 1.0
	DefaultAbsTol = 1e-7
	DefaultRelTol = 1e-7
)

// Config describes one integration run: which model and method, the time
// span, and the step-size and tolerance settings.
type Config struct {
	Model     string    `yaml:"model"`
	Method    string    `yaml:"method"`
	T0        float64   `yaml:"t0"`
	T1        float64   `yaml:"t1"`
	Dt        float64   `yaml:"dt"`
	MaxDt     float64   `yaml:"max_dt"`
	AbsTol    float64   `yaml:"abs_tol"`
	RelTol    float64   `yaml:"rel_tol"`
	MaxSteps  int       `yaml:"max_steps"`
	InitState []float64 `yaml:"init_state"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:  DefaultModel,
		Method: DefaultMethod,
		T0:     0.0,
		T1:     DefaultT1,
		AbsTol: DefaultAbsTol,
		RelTol: DefaultRelTol,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
