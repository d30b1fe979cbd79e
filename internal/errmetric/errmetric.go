// Package errmetric provides the error metrics used to compare a
// predictor's output against the reference evaluation of the full
// configuration space.
package errmetric

import (
	"fmt"
	"math"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// Metric quantifies the deviation between reference and predicted values.
type Metric interface {
	Name() string
	ShortName() string

	// Calculate returns the metric over parallel reference and
	// prediction vectors. Empty or mismatched inputs are errors.
	Calculate(ref, pred []float64) (float64, error)

	// Results returns the metric's contribution to a result row.
	Results() map[string]any
}

// Factory creates a fresh metric instance.
type Factory func() (Metric, error)

// Generate returns one factory per variant of the given module
// configuration.
func Generate(m config.Module) ([]Factory, error) {
	switch m.Name {
	case "MSE":
		return []Factory{func() (Metric, error) { return &MSE{}, nil }}, nil
	case "MAE":
		return []Factory{func() (Metric, error) { return &MAE{}, nil }}, nil
	case "R2":
		return []Factory{func() (Metric, error) { return &R2{}, nil }}, nil
	default:
		return nil, fmt.Errorf("error metric %q not implemented", m.Name)
	}
}

func checkVectors(ref, pred []float64) error {
	if len(ref) == 0 {
		return fmt.Errorf("cannot calculate error over empty vectors")
	}
	if len(ref) != len(pred) {
		return fmt.Errorf("reference has %d values, prediction has %d", len(ref), len(pred))
	}
	return nil
}

// MSE is the mean squared error.
type MSE struct{}

// Name returns the metric name
func (m *MSE) Name() string { return "MSE" }

// ShortName returns the metric short name
func (m *MSE) ShortName() string { return utils.ShortName(m.Name()) }

// Calculate returns the mean squared deviation of pred from ref
func (m *MSE) Calculate(ref, pred []float64) (float64, error) {
	if err := checkVectors(ref, pred); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range ref {
		d := ref[i] - pred[i]
		sum += d * d
	}
	return sum / float64(len(ref)), nil
}

// Results returns the metric's contribution to a result row
func (m *MSE) Results() map[string]any {
	return map[string]any{"error": m.ShortName()}
}

// MAE is the mean absolute error.
type MAE struct{}

// Name returns the metric name
func (m *MAE) Name() string { return "MAE" }

// ShortName returns the metric short name
func (m *MAE) ShortName() string { return utils.ShortName(m.Name()) }

// Calculate returns the mean absolute deviation of pred from ref
func (m *MAE) Calculate(ref, pred []float64) (float64, error) {
	if err := checkVectors(ref, pred); err != nil {
		return 0, err
	}
	sum := 0.0
	for i := range ref {
		sum += math.Abs(ref[i] - pred[i])
	}
	return sum / float64(len(ref)), nil
}

// Results returns the metric's contribution to a result row
func (m *MAE) Results() map[string]any {
	return map[string]any{"error": m.ShortName()}
}

// R2 is the coefficient of determination. A constant reference vector
// has no variance to explain and yields an error.
type R2 struct{}

// Name returns the metric name
func (m *R2) Name() string { return "R2" }

// ShortName returns the metric short name
func (m *R2) ShortName() string { return "R2" }

// Calculate returns 1 - SS_res/SS_tot over the two vectors
func (m *R2) Calculate(ref, pred []float64) (float64, error) {
	if err := checkVectors(ref, pred); err != nil {
		return 0, err
	}
	mean := utils.Mean(ref)
	ssRes, ssTot := 0.0, 0.0
	for i := range ref {
		d := ref[i] - pred[i]
		ssRes += d * d
		t := ref[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return 0, fmt.Errorf("reference vector has zero variance")
	}
	return 1 - ssRes/ssTot, nil
}

// Results returns the metric's contribution to a result row
func (m *R2) Results() map[string]any {
	return map[string]any{"error": m.ShortName()}
}
