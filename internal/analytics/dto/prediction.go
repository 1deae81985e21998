package dto

import "time"

// PredictionRequest is the DTO for requesting a direction prediction. An
// empty range defaults to the configured lookback window.
type PredictionRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// PredictionResponse is the API view of a stored prediction signal.
type PredictionResponse struct {
	SignalID    int64     `json:"signal_id"`
	Ticker      string    `json:"ticker"`
	Direction   string    `json:"direction"`
	Probability float64   `json:"probability"`
	CVAccuracy  float64   `json:"cv_accuracy"`
	CVStd       float64   `json:"cv_std"`
	SampleCount int       `json:"sample_count"`
	CreatedAt   time.Time `json:"created_at"`
}
