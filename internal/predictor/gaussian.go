package predictor

import (
	"fmt"
	"math"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// DefaultSigma is the RBF kernel width used when the config does not
// override it. Suitable for inputs normalized to [0,1].
const DefaultSigma = 1.0

// GaussianProcessPredictor is an RBF-kernel regressor: the estimate at a
// point is the kernel-weighted mean of all observed results. Far from
// every observation the weights degenerate, so the nearest observation's
// value is used instead.
type GaussianProcessPredictor struct {
	sigma   float64
	x       [][]float64
	y       []float64
	trained bool
}

// NewGaussianProcessPredictor creates a predictor with the given kernel
// width; sigma must be positive.
func NewGaussianProcessPredictor(sigma float64) (*GaussianProcessPredictor, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("sigma must be positive, got %f", sigma)
	}
	return &GaussianProcessPredictor{sigma: sigma}, nil
}

func generateGaussianProcess(conf config.Module) ([]Factory, error) {
	sigmaSpec, ok := conf.Param("sigma")
	if !ok {
		sigmaSpec = DefaultSigma
	}
	sigmas, err := config.ExpandParameters(sigmaSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid sigma: %w", err)
	}

	factories := make([]Factory, 0, len(sigmas))
	for _, sigma := range sigmas {
		sigma := sigma
		factories = append(factories, func() (Predictor, error) {
			return NewGaussianProcessPredictor(sigma)
		})
	}
	return factories, nil
}

// Name returns the predictor name
func (p *GaussianProcessPredictor) Name() string {
	return "GaussianProcessPredictor"
}

// ShortName returns the capital letters of the predictor name
func (p *GaussianProcessPredictor) ShortName() string {
	return utils.ShortName(p.Name())
}

// Train stores the observations the kernel regression runs against
func (p *GaussianProcessPredictor) Train(configs [][]float64, results []float64) error {
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

// Predict returns the kernel-weighted mean estimate for every input
func (p *GaussianProcessPredictor) Predict(inputs [][]float64) ([]float64, error) {
	if !p.trained {
		return nil, fmt.Errorf("predictor has not been trained")
	}

	out := make([]float64, len(inputs))
	for i, in := range inputs {
		est, err := p.predictOne(in)
		if err != nil {
			return nil, err
		}
		out[i] = est
	}
	return out, nil
}

func (p *GaussianProcessPredictor) predictOne(in []float64) (float64, error) {
	var weighted, total float64
	nearestIdx, nearestDist := 0, math.Inf(1)

	for i, obs := range p.x {
		if len(obs) != len(in) {
			return 0, fmt.Errorf("input has %d features, observations have %d", len(in), len(obs))
		}
		k := p.kernel(in, obs)
		weighted += k * p.y[i]
		total += k

		if d := utils.EuclideanDistance(in, obs); d < nearestDist {
			nearestDist = d
			nearestIdx = i
		}
	}

	if total == 0 {
		return p.y[nearestIdx], nil
	}
	return weighted / total, nil
}

// kernel is the RBF kernel exp(-|x1-x2|^2 / (2*sigma^2)).
func (p *GaussianProcessPredictor) kernel(x1, x2 []float64) float64 {
	var sum float64
	for i := range x1 {
		diff := x1[i] - x2[i]
		sum += diff * diff
	}
	return math.Exp(-sum / (2 * p.sigma * p.sigma))
}

// Results returns the predictor's contribution to a result row
func (p *GaussianProcessPredictor) Results() map[string]any {
	return map[string]any{
		"predictor": p.ShortName(),
		"sigma":     p.sigma,
	}
}
