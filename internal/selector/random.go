package selector

import (
	"fmt"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/pmodel"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// UniformRandomSelector draws configurations uniformly at random from
// the full configuration space. A negative budget means unlimited.
type UniformRandomSelector struct {
	maxSamples int
	seed       int64
	rng        *utils.RandSource
	inputs     [][]float64
	kSamples   int
}

// NewUniformRandomSelector creates a random selector with the given
// sample budget and base seed.
func NewUniformRandomSelector(maxSamples int, seed int64) *UniformRandomSelector {
	return &UniformRandomSelector{
		maxSamples: maxSamples,
		seed:       seed,
		rng:        utils.NewRandSource(seed),
	}
}

// Name returns the selector name
func (s *UniformRandomSelector) Name() string {
	return "UniformRandomSelector"
}

// ShortName returns the capital letters of the selector name
func (s *UniformRandomSelector) ShortName() string {
	return utils.ShortName(s.Name())
}

// Reinitialize reseeds the selector for a new repetition
func (s *UniformRandomSelector) Reinitialize(repetition int) {
	s.rng = utils.NewRandSource(repetitionSeed(s.seed, repetition))
	s.kSamples = 0
}

// SetInputs hands the selector the enumerated configuration space
func (s *UniformRandomSelector) SetInputs(inputs [][]float64) {
	s.inputs = inputs
}

// SetModel is a no-op; the random selector only needs the enumerated inputs
func (s *UniformRandomSelector) SetModel(pmodel.Model) {}

// HasNext reports whether the sample budget allows another measurement
func (s *UniformRandomSelector) HasNext() bool {
	if s.maxSamples < 0 {
		return true
	}
	return s.kSamples < s.maxSamples
}

// Next returns a uniformly random configuration
func (s *UniformRandomSelector) Next() ([]float64, error) {
	if len(s.inputs) == 0 {
		return nil, fmt.Errorf("selector has no inputs")
	}
	idx := s.rng.Intn(len(s.inputs))
	s.kSamples++
	return s.inputs[idx], nil
}

// Feedback is a no-op for the random selector
func (s *UniformRandomSelector) Feedback([]float64, float64) error {
	return nil
}

// Results returns the selector's contribution to a result row
func (s *UniformRandomSelector) Results() map[string]any {
	return map[string]any{
		"selector":    s.ShortName(),
		"k_samples":   s.kSamples,
		"max_samples": s.maxSamples,
	}
}
