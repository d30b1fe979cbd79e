// Package predictor provides regressors that estimate the performance of
// unmeasured configurations from the samples a selector collected.
package predictor

import (
	"fmt"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
)

// Predictor estimates performance values for unmeasured configurations.
type Predictor interface {
	Name() string
	ShortName() string

	// Train fits the predictor on parallel configuration and result
	// vectors. Empty or mismatched training data is an error.
	Train(configs [][]float64, results []float64) error

	// Predict returns one estimate per input configuration. Predicting
	// before training is an error.
	Predict(inputs [][]float64) ([]float64, error)

	// Results returns the predictor's contribution to a result row.
	Results() map[string]any
}

// Factory creates a fresh predictor instance with clean internal state.
type Factory func() (Predictor, error)

// Generate returns one factory per parameter variant of the given module
// configuration.
func Generate(m config.Module) ([]Factory, error) {
	switch m.Name {
	case "GaussianProcessPredictor":
		return generateGaussianProcess(m)
	case "NearestNeighborPredictor":
		return []Factory{func() (Predictor, error) {
			return NewNearestNeighborPredictor(), nil
		}}, nil
	default:
		return nil, fmt.Errorf("predictor %q not implemented", m.Name)
	}
}

func checkTrainingData(configs [][]float64, results []float64) error {
	if len(configs) == 0 {
		return fmt.Errorf("cannot train on empty sample set")
	}
	if len(configs) != len(results) {
		return fmt.Errorf("got %d configurations but %d results", len(configs), len(results))
	}
	return nil
}
