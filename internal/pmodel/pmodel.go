// Package pmodel provides the performance models whose throughput the
// profiler estimates. A model maps a service-chain configuration to a
// scalar performance value and enumerates its complete configuration
// space for reference evaluation.
package pmodel

import (
	"fmt"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/sampler"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
)

// Model is a performance model of a service chain.
type Model interface {
	Name() string
	ShortName() string

	// Evaluate returns the chain performance for one flattened
	// configuration vector.
	Evaluate(cfg []float64) (float64, error)

	// ConfigSpace enumerates the complete configuration space.
	ConfigSpace() [][]float64

	// ParameterSpace describes the per-VNF parameters and their legal
	// values, for selectors that partition the space.
	ParameterSpace() []sampler.ParameterSet

	// Results returns the model's contribution to a result row.
	Results() map[string]any
}

// Factory creates a fresh model instance with clean internal state.
// Experiment runs never share instances.
type Factory func() (Model, error)

// Generate returns one factory per parameter variant of the given module
// configuration.
func Generate(m config.Module) ([]Factory, error) {
	switch m.Name {
	case "SimpleChainThroughputModel":
		return generateSimpleChain(m)
	default:
		return nil, fmt.Errorf("pmodel %q not implemented", m.Name)
	}
}
