package config

import "fmt"

// Config represents a profiling experiment configuration
type Config struct {
	Name        string `yaml:"name"`
	Author      string `yaml:"author,omitempty"`
	Version     string `yaml:"version,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	Repetitions int    `yaml:"repetitions,omitempty"`

	// SimTMax is the simulated time budget per run in seconds. It accepts
	// a scalar, a list, or a min/max/step mapping and is expanded into one
	// run configuration per value.
	SimTMax any `yaml:"sim_t_max"`

	// MeasurementTimeS is the simulated duration of a single profiling
	// measurement in seconds.
	MeasurementTimeS float64 `yaml:"measurement_time_s,omitempty"`

	ResultPath string `yaml:"result_path,omitempty"`

	PModel    Module `yaml:"pmodel"`
	Selector  Module `yaml:"selector"`
	Predictor Module `yaml:"predictor"`
	Error     Module `yaml:"error"`
}

// Module selects an algorithm implementation by name and carries its
// parameters inline, e.g.:
//
//	selector:
//	  name: DecisionTreeSelector
//	  max_samples: [10, 20, 30]
//	  score_weight: 0.5
type Module struct {
	Name       string         `yaml:"name"`
	Parameters map[string]any `yaml:",inline"`
}

// Param returns the raw parameter value and whether it was set.
func (m Module) Param(key string) (any, bool) {
	v, ok := m.Parameters[key]
	return v, ok
}

// FloatParam returns a numeric parameter or the given default
func (m Module) FloatParam(key string, def float64) float64 {
	v, ok := m.Parameters[key]
	if !ok {
		return def
	}
	f, err := toFloat(v)
	if err != nil {
		return def
	}
	return f
}

// IntParam returns an integer parameter or the given default
func (m Module) IntParam(key string, def int) int {
	v, ok := m.Parameters[key]
	if !ok {
		return def
	}
	f, err := toFloat(v)
	if err != nil {
		return def
	}
	return int(f)
}

// StringParam returns a string parameter or the given default
func (m Module) StringParam(key string, def string) string {
	v, ok := m.Parameters[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

// BoolParam returns a boolean parameter or the given default
func (m Module) BoolParam(key string, def bool) bool {
	v, ok := m.Parameters[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// toFloat converts the numeric types the YAML decoder produces
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
