// Package selector provides the sampling strategies that decide which
// configurations get measured. Baseline strategies pick from the full
// enumerated configuration space; the tree selectors partition the
// parameter space adaptively and sample where the model is still weak.
package selector

import (
	"fmt"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/pmodel"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
)

// Selector chooses the next configuration to measure.
type Selector interface {
	Name() string
	ShortName() string

	// Reinitialize is called once per experiment repetition before the
	// measurement loop starts.
	Reinitialize(repetition int)

	// SetInputs hands the selector the full enumerated configuration
	// space.
	SetInputs(inputs [][]float64)

	// SetModel hands the selector the performance model under profiling,
	// giving partitioning selectors access to the parameter space.
	SetModel(m pmodel.Model)

	// HasNext reports whether the sample budget allows another
	// measurement.
	HasNext() bool

	// Next returns the next configuration to measure as a flattened
	// feature vector.
	Next() ([]float64, error)

	// Feedback informs the selector about the measured result of a
	// configuration it returned.
	Feedback(cfg []float64, result float64) error

	// Results returns the selector's contribution to a result row.
	Results() map[string]any
}

// Factory creates a fresh selector instance with clean internal state.
type Factory func() (Selector, error)

// Generate returns one factory per max_samples variant of the given
// module configuration.
func Generate(m config.Module) ([]Factory, error) {
	budgets, err := expandBudgets(m)
	if err != nil {
		return nil, err
	}
	seed := int64(m.IntParam("seed", 0))

	var build func(maxSamples int) Factory
	switch m.Name {
	case "UniformRandomSelector":
		build = func(maxSamples int) Factory {
			return func() (Selector, error) {
				return NewUniformRandomSelector(maxSamples, seed), nil
			}
		}
	case "UniformGridSelector":
		build = func(maxSamples int) Factory {
			return func() (Selector, error) {
				return NewUniformGridSelector(maxSamples, GridOffsetNone, seed), nil
			}
		}
	case "UniformGridSelectorRandomOffset":
		build = func(maxSamples int) Factory {
			return func() (Selector, error) {
				return NewUniformGridSelector(maxSamples, GridOffsetRandom, seed), nil
			}
		}
	case "UniformGridSelectorIncrementalOffset":
		build = func(maxSamples int) Factory {
			return func() (Selector, error) {
				return NewUniformGridSelector(maxSamples, GridOffsetIncremental, seed), nil
			}
		}
	case "DecisionTreeSelector":
		build = func(maxSamples int) Factory {
			return func() (Selector, error) {
				return NewDecisionTreeSelector(maxSamples, false, seed, treeOptions(m))
			}
		}
	case "ObliqueDecisionTreeSelector":
		build = func(maxSamples int) Factory {
			return func() (Selector, error) {
				return NewDecisionTreeSelector(maxSamples, true, seed, treeOptions(m))
			}
		}
	default:
		return nil, fmt.Errorf("selector %q not implemented", m.Name)
	}

	factories := make([]Factory, 0, len(budgets))
	for _, b := range budgets {
		factories = append(factories, build(b))
	}
	return factories, nil
}

func expandBudgets(m config.Module) ([]int, error) {
	spec, ok := m.Param("max_samples")
	if !ok {
		// -1 means an unlimited budget
		return []int{-1}, nil
	}
	values, err := config.ExpandParameters(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid max_samples: %w", err)
	}
	budgets := make([]int, len(values))
	for i, v := range values {
		budgets[i] = int(v)
	}
	return budgets, nil
}

// repetitionSeed derives a per-repetition seed so repetitions differ but
// stay reproducible. A zero base seed stays zero, which makes the random
// source fall back to wall-clock seeding.
func repetitionSeed(base int64, repetition int) int64 {
	if base == 0 {
		return 0
	}
	return base + int64(repetition)
}
