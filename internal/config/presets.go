package config

// Presets are ready-made run configurations, keyed by model then name.
var Presets = map[string]map[string]*Config{
	"decay": {
		"short": {
			Model: "decay", Method: "rk4", T1: 1.0, Dt: 0.1,
			InitState: []float64{1.0},
		},
		"long": {
			Model: "decay", Method: "dopri", T1: 20.0,
			AbsTol: 1e-9, RelTol: 1e-9, InitState: []float64{1.0},
		},
	},
	"oscillator": {
		"period": {
			Model: "oscillator", Method: "dopri", T1: 6.283185307179586,
			AbsTol: 1e-9, RelTol: 1e-9, InitState: []float64{1.0, 0.0},
		},
		"coarse": {
			Model: "oscillator", Method: "rk4", T1: 10.0, Dt: 0.05,
			InitState: []float64{1.0, 0.0},
		},
	},
	"vanderpol": {
		"relaxed": {
			Model: "vanderpol", Method: "dopri", T1: 20.0,
			InitState: []float64{2.0, 0.0},
		},
		"stiff": {
			Model: "vanderpol", Method: "dopri", T1: 10.0,
			AbsTol: 1e-8, RelTol: 1e-8, InitState: []float64{2.0, 0.0},
		},
	},
	"lorenz": {
		"butterfly": {
			Model: "lorenz", Method: "dopri", T1: 40.0,
			AbsTol: 1e-8, RelTol: 1e-8, InitState: []float64{1.0, 1.0, 1.0},
		},
	},
}

// GetPreset returns a named preset with defaults filled in, or nil when
// the model or preset is unknown.
func GetPreset(model, name string) *Config {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	out := *cfg
	if out.Method == "" {
		out.Method = DefaultMethod
	}
	if out.AbsTol == 0 {
		out.AbsTol = DefaultAbsTol
	}
	if out.RelTol == 0 {
		out.RelTol = DefaultRelTol
	}
	return &out
}

// ListPresets returns the preset names for a model, or nil when the model
// has none.
func ListPresets(model string) []string {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
