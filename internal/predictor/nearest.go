package predictor

import (
	"fmt"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// NearestNeighborPredictor predicts the result of the closest observed
// configuration by Euclidean distance. Ties resolve to the earliest
// observation.
type NearestNeighborPredictor struct {
	x       [][]float64
	y       []float64
	trained bool
}

// NewNearestNeighborPredictor creates an untrained predictor.
func NewNearestNeighborPredictor() *NearestNeighborPredictor {
	return &NearestNeighborPredictor{}
}

// Name returns the predictor name
func (p *NearestNeighborPredictor) Name() string {
	return "NearestNeighborPredictor"
}

// ShortName returns the capital letters of the predictor name
func (p *NearestNeighborPredictor) ShortName() string {
	return utils.ShortName(p.Name())
}

// Train stores the observations
func (p *NearestNeighborPredictor) Train(configs [][]float64, results []float64) error {
	if err := checkTrainingData(configs, results); err != nil {
		return err
	}

	p.x = make([][]float64, len(configs))
	for i, c := range configs {
		p.x[i] = append([]float64(nil), c...)
	}
	p.y = append([]float64(nil), results...)
	p.trained = true
	return nil
}

// Predict returns, for every input, the result of the nearest observation
func (p *NearestNeighborPredictor) Predict(inputs [][]float64) ([]float64, error) {
	if !p.trained {
		return nil, fmt.Errorf("predictor has not been trained")
	}

	out := make([]float64, len(inputs))
	for i, in := range inputs {
		best := 0
		bestDist := utils.EuclideanDistance(in, p.x[0])
		for j := 1; j < len(p.x); j++ {
			if d := utils.EuclideanDistance(in, p.x[j]); d < bestDist {
				bestDist = d
				best = j
			}
		}
		out[i] = p.y[best]
	}
	return out, nil
}

// Results returns the predictor's contribution to a result row
func (p *NearestNeighborPredictor) Results() map[string]any {
	return map[string]any{"predictor": p.ShortName()}
}
