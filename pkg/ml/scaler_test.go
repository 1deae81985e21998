package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler_ZeroMeanUnitVariance(t *testing.T) {
	matrix := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
	}

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(matrix)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		sum, sumSq := 0.0, 0.0
		for _, row := range scaled {
			sum += row[j]
			sumSq += row[j] * row[j]
		}
		n := float64(len(scaled))
		assert.InDelta(t, 0, sum/n, 1e-9, "column %d mean", j)
		assert.InDelta(t, 1, sumSq/n, 1e-9, "column %d variance", j)
	}
}

func TestStandardScaler_ConstantColumnNoNaN(t *testing.T) {
	matrix := [][]float64{
		{5, 1},
		{5, 2},
		{5, 3},
	}

	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(matrix)
	require.NoError(t, err)

	for _, row := range scaled {
		assert.Equal(t, 0.0, row[0])
		assert.False(t, math.IsNaN(row[1]))
		assert.False(t, math.IsInf(row[1], 0))
	}
}

func TestStandardScaler_UsesPopulationStd(t *testing.T) {
	matrix := [][]float64{{1}, {3}}

	scaler := NewStandardScaler()
	require.NoError(t, scaler.Fit(matrix))

	// population std of {1, 3} is 1, sample std would be sqrt(2)
	assert.InDelta(t, 1.0, scaler.Stds[0], 1e-9)
	assert.InDelta(t, 2.0, scaler.Means[0], 1e-9)
}

func TestStandardScaler_Errors(t *testing.T) {
	scaler := NewStandardScaler()

	_, err := scaler.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, scaler.Fit(nil), ErrEmptyDataset)
	assert.ErrorIs(t, scaler.Fit([][]float64{{1, 2}, {3}}), ErrLengthMismatch)

	require.NoError(t, scaler.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = scaler.Transform([][]float64{{1}})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
