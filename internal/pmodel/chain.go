package pmodel

import (
	"fmt"
	"math"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/sampler"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/logger"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/utils"
)

// Grid resolution of the per-VNF CPU-share axis.
const (
	gridMin    = 0.01
	gridMax    = 1.0
	gridPoints = 20
)

// VNFFunc maps a VNF's CPU share to its standalone throughput.
type VNFFunc func(cpuShare float64) float64

// defaultVNFFuncs are cycled through when a chain is longer than the
// function list.
var defaultVNFFuncs = []VNFFunc{
	func(x float64) float64 { return x*x + 2*x + 0.1 },
	func(x float64) float64 { return math.Pow(x, 4) + 0.5*x },
}

// SimpleChainThroughputModel models a linear SFC f1 -> f2 -> ... -> fN.
// The chain throughput is the minimum over all stages of the stage's
// scaled standalone throughput (the naive bottleneck model).
type SimpleChainThroughputModel struct {
	vnfs   []VNFFunc
	alphas []float64
	grid   []float64
}

// NewSimpleChainThroughputModel creates a chain model from per-VNF
// throughput functions and optional per-VNF scaling factors. Nil alphas
// default to 1.0 everywhere; a chain without VNFs is an error.
func NewSimpleChainThroughputModel(vnfs []VNFFunc, alphas []float64) (*SimpleChainThroughputModel, error) {
	if len(vnfs) == 0 {
		return nil, fmt.Errorf("chain model with 0 VNFs not supported")
	}
	if alphas == nil {
		alphas = make([]float64, len(vnfs))
		for i := range alphas {
			alphas[i] = 1.0
		}
	}
	if len(alphas) != len(vnfs) {
		return nil, fmt.Errorf("got %d alphas for %d VNFs", len(alphas), len(vnfs))
	}

	m := &SimpleChainThroughputModel{
		vnfs:   vnfs,
		alphas: alphas,
		grid:   utils.Linspace(gridMin, gridMax, gridPoints),
	}
	logger.Debug("Initialized performance model", "name", m.Name(), "vnf_count", len(vnfs))
	return m, nil
}

func generateSimpleChain(conf config.Module) ([]Factory, error) {
	vnfCount := conf.IntParam("vnf_count", len(defaultVNFFuncs))
	if vnfCount < 1 {
		return nil, fmt.Errorf("vnf_count must be positive, got %d", vnfCount)
	}

	vnfs := make([]VNFFunc, vnfCount)
	for i := range vnfs {
		vnfs[i] = defaultVNFFuncs[i%len(defaultVNFFuncs)]
	}

	factory := func() (Model, error) {
		return NewSimpleChainThroughputModel(vnfs, nil)
	}
	return []Factory{factory}, nil
}

// Name returns the model name
func (m *SimpleChainThroughputModel) Name() string {
	return "SimpleChainThroughputModel"
}

// ShortName returns the capital letters of the model name
func (m *SimpleChainThroughputModel) ShortName() string {
	return utils.ShortName(m.Name())
}

// Evaluate returns the chain throughput, the minimum over all stages of
// alpha_i * f_i(c_i).
func (m *SimpleChainThroughputModel) Evaluate(cfg []float64) (float64, error) {
	if len(cfg) != len(m.vnfs) {
		return 0, fmt.Errorf("configuration has %d values, chain has %d VNFs", len(cfg), len(m.vnfs))
	}
	tp := math.Inf(1)
	for i, f := range m.vnfs {
		tp = utils.Min(tp, m.alphas[i]*f(cfg[i]))
	}
	return tp, nil
}

// ConfigSpace enumerates the cartesian grid over every VNF's CPU-share
// axis, the first stage's coordinate varying fastest.
func (m *SimpleChainThroughputModel) ConfigSpace() [][]float64 {
	total := 1
	for range m.vnfs {
		total *= len(m.grid)
	}

	space := make([][]float64, 0, total)
	idx := make([]int, len(m.vnfs))
	for n := 0; n < total; n++ {
		cfg := make([]float64, len(m.vnfs))
		for i, g := range idx {
			cfg[i] = m.grid[g]
		}
		space = append(space, cfg)

		for i := 0; i < len(idx); i++ {
			idx[i]++
			if idx[i] < len(m.grid) {
				break
			}
			idx[i] = 0
		}
	}
	return space
}

// ParameterSpace returns one single-parameter set per chain stage.
func (m *SimpleChainThroughputModel) ParameterSpace() []sampler.ParameterSet {
	sets := make([]sampler.ParameterSet, len(m.vnfs))
	for i := range sets {
		values := make([]float64, len(m.grid))
		copy(values, m.grid)
		sets[i] = sampler.ParameterSet{{Name: "c", Values: values}}
	}
	return sets
}

// Results returns the model's contribution to a result row
func (m *SimpleChainThroughputModel) Results() map[string]any {
	return map[string]any{
		"pmodel":    m.ShortName(),
		"vnf_count": len(m.vnfs),
	}
}
