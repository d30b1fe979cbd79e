package selector

import (
	"fmt"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/pmodel"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// GridOffset selects how a UniformGridSelector shifts its grid between
// repetitions.
type GridOffset int

const (
	// GridOffsetNone always starts the grid at index zero.
	GridOffsetNone GridOffset = iota

	// GridOffsetRandom re-rolls a random offset within the grid stride
	// on every repetition.
	GridOffsetRandom

	// GridOffsetIncremental uses the repetition id as offset.
	GridOffsetIncremental
)

// UniformGridSelector walks the enumerated configuration space with a
// fixed stride so the budget spreads evenly over the space. Unlike the
// random selector it requires a positive max_samples to derive the
// stride.
type UniformGridSelector struct {
	maxSamples int
	offsetMode GridOffset
	seed       int64
	rng        *utils.RandSource
	inputs     [][]float64
	offset     int
	rollOffset bool
	kSamples   int
}

// NewUniformGridSelector creates a grid selector with the given budget,
// offset behavior and base seed.
func NewUniformGridSelector(maxSamples int, mode GridOffset, seed int64) *UniformGridSelector {
	return &UniformGridSelector{
		maxSamples: maxSamples,
		offsetMode: mode,
		seed:       seed,
		rng:        utils.NewRandSource(seed),
		rollOffset: mode == GridOffsetRandom,
	}
}

// Name returns the selector name including the offset variant
func (s *UniformGridSelector) Name() string {
	switch s.offsetMode {
	case GridOffsetRandom:
		return "UniformGridSelectorRandomOffset"
	case GridOffsetIncremental:
		return "UniformGridSelectorIncrementalOffset"
	default:
		return "UniformGridSelector"
	}
}

// ShortName returns the capital letters of the selector name
func (s *UniformGridSelector) ShortName() string {
	return utils.ShortName(s.Name())
}

// Reinitialize re-derives the grid offset for a new repetition. The
// random offset is rolled on the first Next, since the inputs may not
// be set yet when a run reinitializes its selector.
func (s *UniformGridSelector) Reinitialize(repetition int) {
	s.rng = utils.NewRandSource(repetitionSeed(s.seed, repetition))
	s.kSamples = 0
	s.offset = 0

	switch s.offsetMode {
	case GridOffsetRandom:
		s.rollOffset = true
	case GridOffsetIncremental:
		// applied modulo the stride when selecting
		s.offset = repetition
	}
}

// SetInputs hands the selector the enumerated configuration space
func (s *UniformGridSelector) SetInputs(inputs [][]float64) {
	s.inputs = inputs
}

// SetModel is a no-op; the grid selector only needs the enumerated inputs
func (s *UniformGridSelector) SetModel(pmodel.Model) {}

// HasNext reports whether the sample budget allows another measurement
func (s *UniformGridSelector) HasNext() bool {
	if s.maxSamples < 0 {
		return true
	}
	return s.kSamples < s.maxSamples
}

func (s *UniformGridSelector) stride() (int, error) {
	if s.maxSamples <= 0 {
		return 0, fmt.Errorf("grid selection requires a positive max_samples, got %d", s.maxSamples)
	}
	stride := len(s.inputs) / s.maxSamples
	if stride < 1 {
		return 0, fmt.Errorf("budget %d exceeds configuration space size %d", s.maxSamples, len(s.inputs))
	}
	return stride, nil
}

// Next returns the next grid point
func (s *UniformGridSelector) Next() ([]float64, error) {
	if len(s.inputs) == 0 {
		return nil, fmt.Errorf("selector has no inputs")
	}
	stride, err := s.stride()
	if err != nil {
		return nil, err
	}
	if s.rollOffset {
		s.offset = s.rng.Intn(stride)
		s.rollOffset = false
	}

	idx := (s.offset % stride) + s.kSamples*stride
	if idx >= len(s.inputs) {
		return nil, fmt.Errorf("grid index %d outside configuration space of size %d", idx, len(s.inputs))
	}
	s.kSamples++
	return s.inputs[idx], nil
}

// Feedback is a no-op for the grid selector
func (s *UniformGridSelector) Feedback([]float64, float64) error {
	return nil
}

// Results returns the selector's contribution to a result row
func (s *UniformGridSelector) Results() map[string]any {
	return map[string]any{
		"selector":    s.ShortName(),
		"k_samples":   s.kSamples,
		"max_samples": s.maxSamples,
		"offset":      s.offset,
	}
}
