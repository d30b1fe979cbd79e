package config

import "fmt"

// ExpandParameters turns a parameter specification from a config file
// into the list of concrete values it covers. Three forms are accepted:
//
//	scalar:   42            -> [42]
//	list:     [10, 20, 30]  -> [10, 20, 30]
//	range:    {min: 0, max: 1, step: 0.25} -> [0, 0.25, 0.5, 0.75, 1]
//
// The range form includes max when the step sequence lands on it.
func ExpandParameters(spec any) ([]float64, error) {
	if spec == nil {
		return nil, fmt.Errorf("parameter specification is missing")
	}

	switch v := spec.(type) {
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("parameter list cannot be empty")
		}
		values := make([]float64, 0, len(v))
		for i, item := range v {
			f, err := toFloat(item)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			values = append(values, f)
		}
		return values, nil
	case map[string]any:
		return expandRange(v)
	default:
		f, err := toFloat(spec)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

func expandRange(spec map[string]any) ([]float64, error) {
	min, err := rangeField(spec, "min")
	if err != nil {
		return nil, err
	}
	max, err := rangeField(spec, "max")
	if err != nil {
		return nil, err
	}
	step, err := rangeField(spec, "step")
	if err != nil {
		return nil, err
	}

	if step <= 0 {
		return nil, fmt.Errorf("range step must be positive, got %f", step)
	}
	if max < min {
		return nil, fmt.Errorf("range max %f is smaller than min %f", max, min)
	}

	// Small epsilon so float accumulation does not drop max itself.
	var values []float64
	eps := step * 1e-9
	for v := min; v <= max+eps; v += step {
		values = append(values, v)
	}
	return values, nil
}

func rangeField(spec map[string]any, key string) (float64, error) {
	raw, ok := spec[key]
	if !ok {
		return 0, fmt.Errorf("range specification is missing %q", key)
	}
	f, err := toFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("range field %q: %w", key, err)
	}
	return f, nil
}
