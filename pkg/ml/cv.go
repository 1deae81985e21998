package ml

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// DefaultFolds is the fold count used by FitCV when none is configured.
const DefaultFolds = 8

// CVResult holds per-fold accuracies and their summary statistics.
type CVResult struct {
	Scores []float64 `json:"scores"`
	Mean   float64   `json:"mean"`
	Std    float64   `json:"std"`
}

// CrossValidate trains k independent logistic regressions, each holding out
// one sequential fold as its test set, and reports the per-fold accuracies.
func CrossValidate(X [][]float64, y []int, k int, learningRate float64, epochs int) (*CVResult, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("cross validate: %d samples vs %d labels: %w", len(X), len(y), ErrLengthMismatch)
	}
	if len(X) == 0 {
		return nil, fmt.Errorf("cross validate: %w", ErrEmptyDataset)
	}

	folds, err := KFoldSplit(len(X), k)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, k)
	for _, fold := range folds {
		trainX := make([][]float64, 0, len(fold.TrainIndices))
		trainY := make([]int, 0, len(fold.TrainIndices))
		for _, idx := range fold.TrainIndices {
			trainX = append(trainX, X[idx])
			trainY = append(trainY, y[idx])
		}
		testX := make([][]float64, 0, len(fold.TestIndices))
		testY := make([]int, 0, len(fold.TestIndices))
		for _, idx := range fold.TestIndices {
			testX = append(testX, X[idx])
			testY = append(testY, y[idx])
		}

		model := NewLogisticRegression(learningRate, epochs)
		if err := model.Fit(trainX, trainY); err != nil {
			return nil, err
		}
		score, err := model.Score(testX, testY)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}

	return &CVResult{
		Scores: scores,
		Mean:   stat.Mean(scores, nil),
		Std:    stat.PopStdDev(scores, nil),
	}, nil
}

// ModelArtifact is the serializable unit of a trained model: weight vector,
// bias, and the fitted scaler. Weights without their paired scaler cannot
// reproduce predictions, so the two always travel together.
type ModelArtifact struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Means   []float64 `json:"scaler_means"`
	Stds    []float64 `json:"scaler_stds"`
}

// LogisticRegressionCV couples a logistic regression with a standard scaler
// and k-fold diagnostics.
type LogisticRegressionCV struct {
	Model  *LogisticRegression
	Scaler *StandardScaler
	Folds  int

	// CV holds the diagnostics of the last FitCV call; nil when the dataset
	// was too small to cross-validate.
	CV *CVResult
}

// NewLogisticRegressionCV creates an unfitted CV model.
func NewLogisticRegressionCV(learningRate float64, epochs, folds int) *LogisticRegressionCV {
	if folds <= 0 {
		folds = DefaultFolds
	}
	return &LogisticRegressionCV{
		Model:  NewLogisticRegression(learningRate, epochs),
		Scaler: NewStandardScaler(),
		Folds:  folds,
	}
}

// FitCV standardizes X, runs k-fold cross-validation for diagnostics, then
// fits one final model on the entire dataset. The CV scores never gate the
// final fit: when the sample count cannot support the configured fold count
// the diagnostics are skipped and the full fit still happens.
func (m *LogisticRegressionCV) FitCV(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("fit cv: %w", ErrEmptyDataset)
	}
	if len(X) != len(y) {
		return fmt.Errorf("fit cv: %d samples vs %d labels: %w", len(X), len(y), ErrLengthMismatch)
	}

	scaled, err := m.Scaler.FitTransform(X)
	if err != nil {
		return err
	}

	cv, err := CrossValidate(scaled, y, m.Folds, m.Model.LearningRate, m.Model.Epochs)
	if err != nil {
		if !errors.Is(err, ErrInvalidArgument) {
			return err
		}
		m.CV = nil
	} else {
		m.CV = cv
	}

	return m.Model.Fit(scaled, y)
}

// PredictProba scales X with the fitted scaler and returns sigmoid outputs.
func (m *LogisticRegressionCV) PredictProba(X [][]float64) ([]float64, error) {
	scaled, err := m.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return m.Model.PredictProba(scaled)
}

// Predict scales X and thresholds at 0.5.
func (m *LogisticRegressionCV) Predict(X [][]float64) ([]int, error) {
	scaled, err := m.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return m.Model.Predict(scaled)
}

// Artifact exports the fitted weights, bias, and scaler as one unit.
func (m *LogisticRegressionCV) Artifact() (*ModelArtifact, error) {
	if m.Model.Weights == nil || !m.Scaler.Fitted() {
		return nil, fmt.Errorf("artifact: %w", ErrNotFitted)
	}
	return &ModelArtifact{
		Weights: m.Model.Weights,
		Bias:    m.Model.Bias,
		Means:   m.Scaler.Means,
		Stds:    m.Scaler.Stds,
	}, nil
}

// FromArtifact restores a model for inference. A weight vector without its
// paired scaler is rejected: applying unscaled features to scaled-space
// weights silently corrupts predictions.
func FromArtifact(a *ModelArtifact) (*LogisticRegressionCV, error) {
	if a == nil || len(a.Weights) == 0 {
		return nil, fmt.Errorf("load artifact: missing weights: %w", ErrInvalidArgument)
	}
	if len(a.Means) != len(a.Weights) || len(a.Stds) != len(a.Weights) {
		return nil, fmt.Errorf("load artifact: scaler does not match weight vector: %w", ErrInvalidArgument)
	}
	return &LogisticRegressionCV{
		Model: &LogisticRegression{
			Weights:      a.Weights,
			Bias:         a.Bias,
			LearningRate: DefaultLearningRate,
			Epochs:       DefaultEpochs,
		},
		Scaler: &StandardScaler{Means: a.Means, Stds: a.Stds},
		Folds:  DefaultFolds,
	}, nil
}
