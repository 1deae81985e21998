package ml

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes feature columns to zero mean and unit variance
// using the population standard deviation. The fitted means and stds are part
// of the model artifact: predictions are only reproducible when the exact
// scaler that was fitted at training time is applied at inference time.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fitted reports whether Fit has been called.
func (s *StandardScaler) Fitted() bool {
	return len(s.Means) > 0
}

// Fit computes per-column mean and population standard deviation.
func (s *StandardScaler) Fit(matrix [][]float64) error {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return fmt.Errorf("scaler fit: %w", ErrEmptyDataset)
	}

	cols := len(matrix[0])
	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)

	column := make([]float64, len(matrix))
	for j := 0; j < cols; j++ {
		for i, row := range matrix {
			if len(row) != cols {
				return fmt.Errorf("scaler fit: row %d has %d columns, want %d: %w", i, len(row), cols, ErrLengthMismatch)
			}
			column[i] = row[j]
		}
		s.Means[j] = stat.Mean(column, nil)
		s.Stds[j] = stat.PopStdDev(column, nil)
	}
	return nil
}

// Transform applies (x - mean) / std per column. Columns whose fitted std is
// zero transform to zero output instead of dividing by zero, so a constant
// column can never produce NaN or Inf.
func (s *StandardScaler) Transform(matrix [][]float64) ([][]float64, error) {
	if !s.Fitted() {
		return nil, fmt.Errorf("scaler transform: %w", ErrNotFitted)
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("scaler transform: row %d has %d columns, want %d: %w", i, len(row), len(s.Means), ErrLengthMismatch)
		}
		scaled := make([]float64, len(row))
		for j, x := range row {
			if s.Stds[j] == 0 {
				scaled[j] = 0
				continue
			}
			scaled[j] = (x - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and transforms the same matrix.
func (s *StandardScaler) FitTransform(matrix [][]float64) ([][]float64, error) {
	if err := s.Fit(matrix); err != nil {
		return nil, err
	}
	return s.Transform(matrix)
}
