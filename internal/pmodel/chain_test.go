package pmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
)

func defaultChain(t *testing.T) *SimpleChainThroughputModel {
	t.Helper()
	m, err := NewSimpleChainThroughputModel(defaultVNFFuncs, nil)
	require.NoError(t, err)
	return m
}

func TestNewSimpleChainErrors(t *testing.T) {
	_, err := NewSimpleChainThroughputModel(nil, nil)
	assert.Error(t, err, "zero VNFs")

	_, err = NewSimpleChainThroughputModel(defaultVNFFuncs, []float64{1.0})
	assert.Error(t, err, "alpha count mismatch")
}

func TestChainEvaluateIsBottleneck(t *testing.T) {
	m := defaultChain(t)

	// f1(x) = x^2+2x+0.1, f2(x) = x^4+0.5x
	tp, err := m.Evaluate([]float64{1.0, 1.0})
	require.NoError(t, err)
	// f1(1)=3.1, f2(1)=1.5 -> bottleneck is stage 2
	assert.InDelta(t, 1.5, tp, 1e-12)

	tp, err = m.Evaluate([]float64{0.1, 1.0})
	require.NoError(t, err)
	// f1(0.1)=0.31 -> now stage 1 is the bottleneck
	assert.InDelta(t, 0.31, tp, 1e-12)
}

func TestChainEvaluateAlphas(t *testing.T) {
	m, err := NewSimpleChainThroughputModel(defaultVNFFuncs, []float64{0.1, 1.0})
	require.NoError(t, err)

	tp, err := m.Evaluate([]float64{1.0, 1.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.31, tp, 1e-12)
}

func TestChainEvaluateLengthMismatch(t *testing.T) {
	m := defaultChain(t)
	_, err := m.Evaluate([]float64{0.5})
	assert.Error(t, err)
}

func TestChainConfigSpace(t *testing.T) {
	m := defaultChain(t)
	space := m.ConfigSpace()

	// 20x20 grid for the default two-stage chain
	require.Len(t, space, 400)

	// grid endpoints are pinned
	assert.InDelta(t, 0.01, space[0][0], 1e-12)
	assert.InDelta(t, 0.01, space[0][1], 1e-12)
	last := space[len(space)-1]
	assert.InDelta(t, 1.0, last[0], 1e-12)
	assert.InDelta(t, 1.0, last[1], 1e-12)

	// the first stage's coordinate varies fastest
	assert.Equal(t, space[0][1], space[1][1])
	assert.Greater(t, space[1][0], space[0][0])

	// no duplicate configurations
	seen := make(map[[2]float64]bool, len(space))
	for _, cfg := range space {
		key := [2]float64{cfg[0], cfg[1]}
		assert.False(t, seen[key], "duplicate config %v", cfg)
		seen[key] = true
	}
}

func TestChainParameterSpace(t *testing.T) {
	m := defaultChain(t)
	sets := m.ParameterSpace()

	require.Len(t, sets, 2)
	for _, set := range sets {
		require.Len(t, set, 1)
		assert.Equal(t, "c", set[0].Name)
		require.Len(t, set[0].Values, 20)
		assert.InDelta(t, 0.01, set[0].Values[0], 1e-12)
		assert.InDelta(t, 1.0, set[0].Values[19], 1e-12)
	}
}

func TestChainNames(t *testing.T) {
	m := defaultChain(t)
	assert.Equal(t, "SimpleChainThroughputModel", m.Name())
	assert.Equal(t, "SCTM", m.ShortName())

	r := m.Results()
	assert.Equal(t, "SCTM", r["pmodel"])
	assert.Equal(t, 2, r["vnf_count"])
}

func TestGenerate(t *testing.T) {
	factories, err := Generate(config.Module{
		Name:       "SimpleChainThroughputModel",
		Parameters: map[string]any{"vnf_count": 3},
	})
	require.NoError(t, err)
	require.Len(t, factories, 1)

	m, err := factories[0]()
	require.NoError(t, err)
	assert.Equal(t, 3, m.Results()["vnf_count"])

	// stage 3 reuses the first default function
	tp, err := m.Evaluate([]float64{1.0, 1.0, 0.1})
	require.NoError(t, err)
	assert.InDelta(t, 0.31, tp, 1e-12)

	// factories hand out fresh instances
	m2, err := factories[0]()
	require.NoError(t, err)
	assert.NotSame(t, m, m2)
}

func TestGenerateUnknownModel(t *testing.T) {
	_, err := Generate(config.Module{Name: "NoSuchModel"})
	assert.Error(t, err)
}

func TestGenerateInvalidVNFCount(t *testing.T) {
	_, err := Generate(config.Module{
		Name:       "SimpleChainThroughputModel",
		Parameters: map[string]any{"vnf_count": 0},
	})
	assert.Error(t, err)
}

func TestChainEvaluateFiniteOverGrid(t *testing.T) {
	m := defaultChain(t)
	for _, cfg := range m.ConfigSpace() {
		tp, err := m.Evaluate(cfg)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(tp) || math.IsInf(tp, 0))
		assert.Positive(t, tp)
	}
}
