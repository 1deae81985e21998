package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Prediction directions.
const (
	DirectionUp   = "UP"
	DirectionDown = "DOWN"
)

// PredictionSignal is a stored short-horizon direction prediction. Data holds
// the serialized model artifact (weights, bias, scaler) together with the
// cross-validation diagnostics, so the exact prediction is reproducible.
type PredictionSignal struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	Ticker      string         `gorm:"type:varchar(16);not null;index" json:"ticker"`
	Direction   string         `gorm:"type:varchar(8);not null" json:"direction"`
	Probability float64        `gorm:"not null" json:"probability"`
	CVAccuracy  float64        `json:"cv_accuracy"`
	SampleCount int            `json:"sample_count"`
	Data        datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the PredictionSignal model.
func (PredictionSignal) TableName() string {
	return "prediction_signals"
}
