package ml

import (
	"fmt"
	"math"
)

// Default gradient-descent hyperparameters.
const (
	DefaultLearningRate = 0.1
	DefaultEpochs       = 1000
)

// LogisticRegression is a binary linear classifier trained with full-batch
// gradient descent on the cross-entropy loss.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`

	LearningRate float64 `json:"-"`
	Epochs       int     `json:"-"`
}

// NewLogisticRegression creates a model with the given hyperparameters,
// falling back to defaults for non-positive values.
func NewLogisticRegression(learningRate float64, epochs int) *LogisticRegression {
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	if epochs <= 0 {
		epochs = DefaultEpochs
	}
	return &LogisticRegression{LearningRate: learningRate, Epochs: epochs}
}

func sigmoid(z float64) float64 {
	// Clamp to keep exp from overflowing; beyond +-500 the result saturates anyway.
	if z > 500 {
		z = 500
	} else if z < -500 {
		z = -500
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit learns weights and bias from X and binary labels y (0 or 1).
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("logistic regression fit: %w", ErrEmptyDataset)
	}
	if len(X) != len(y) {
		return fmt.Errorf("logistic regression fit: %d samples vs %d labels: %w", len(X), len(y), ErrLengthMismatch)
	}

	features := len(X[0])
	for i, row := range X {
		if len(row) != features {
			return fmt.Errorf("logistic regression fit: row %d has %d features, want %d: %w", i, len(row), features, ErrLengthMismatch)
		}
	}

	m.Weights = make([]float64, features)
	m.Bias = 0

	n := float64(len(X))
	gradW := make([]float64, features)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i, row := range X {
			z := m.Bias
			for j, x := range row {
				z += m.Weights[j] * x
			}
			diff := sigmoid(z) - float64(y[i])
			for j, x := range row {
				gradW[j] += diff * x
			}
			gradB += diff
		}

		for j := range m.Weights {
			m.Weights[j] -= m.LearningRate * gradW[j] / n
		}
		m.Bias -= m.LearningRate * gradB / n
	}
	return nil
}

// PredictProba returns the sigmoid output for each row of X.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if m.Weights == nil {
		return nil, fmt.Errorf("logistic regression predict: %w", ErrNotFitted)
	}

	probs := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Weights) {
			return nil, fmt.Errorf("logistic regression predict: row %d has %d features, want %d: %w", i, len(row), len(m.Weights), ErrLengthMismatch)
		}
		z := m.Bias
		for j, x := range row {
			z += m.Weights[j] * x
		}
		probs[i] = sigmoid(z)
	}
	return probs, nil
}

// Predict thresholds PredictProba at 0.5.
func (m *LogisticRegression) Predict(X [][]float64) ([]int, error) {
	probs, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			labels[i] = 1
		}
	}
	return labels, nil
}

// Score returns the accuracy of the model on X against labels y.
func (m *LogisticRegression) Score(X [][]float64, y []int) (float64, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("logistic regression score: %w", ErrEmptyDataset)
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("logistic regression score: %d samples vs %d labels: %w", len(X), len(y), ErrLengthMismatch)
	}

	predicted, err := m.Predict(X)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i, label := range predicted {
		if label == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y)), nil
}
