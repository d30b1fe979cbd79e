package errmetric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
)

func TestMSE(t *testing.T) {
	m := &MSE{}

	got, err := m.Calculate([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = m.Calculate([]float64{1, 2, 3}, []float64{2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	got, err = m.Calculate([]float64{0, 0}, []float64{3, 1})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestMAE(t *testing.T) {
	m := &MAE{}

	got, err := m.Calculate([]float64{1, 2, 3}, []float64{2, 1, 5})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0, got, 1e-12)
}

func TestR2(t *testing.T) {
	m := &R2{}

	got, err := m.Calculate([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	// predicting the mean scores zero
	got, err = m.Calculate([]float64{1, 2, 3, 4}, []float64{2.5, 2.5, 2.5, 2.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)

	_, err = m.Calculate([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.Error(t, err, "constant reference")
}

func TestVectorValidation(t *testing.T) {
	metrics := []Metric{&MSE{}, &MAE{}, &R2{}}
	for _, m := range metrics {
		_, err := m.Calculate(nil, nil)
		assert.Error(t, err, "%s on empty vectors", m.Name())

		_, err = m.Calculate([]float64{1, 2}, []float64{1})
		assert.Error(t, err, "%s on mismatched lengths", m.Name())
	}
}

func TestShortNames(t *testing.T) {
	assert.Equal(t, "MSE", (&MSE{}).ShortName())
	assert.Equal(t, "MAE", (&MAE{}).ShortName())
	assert.Equal(t, "R2", (&R2{}).ShortName())

	assert.Equal(t, "MSE", (&MSE{}).Results()["error"])
}

func TestGenerate(t *testing.T) {
	for _, name := range []string{"MSE", "MAE", "R2"} {
		factories, err := Generate(config.Module{Name: name})
		require.NoError(t, err)
		require.Len(t, factories, 1)

		m, err := factories[0]()
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}

	_, err := Generate(config.Module{Name: "RMSE"})
	assert.Error(t, err)
}
