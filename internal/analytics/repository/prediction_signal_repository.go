package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"golang-stock-sentiment/internal/entity"
)

// NewPredictionSignalRepository creates a new instance of PredictionSignalRepository.
func NewPredictionSignalRepository(db *gorm.DB) PredictionSignalRepository {
	return &predictionSignalRepository{db: db}
}

type predictionSignalRepository struct {
	db *gorm.DB
}

func (r *predictionSignalRepository) Create(ctx context.Context, signal *entity.PredictionSignal) error {
	return r.db.WithContext(ctx).Create(signal).Error
}

// FindLatest returns the most recent signal for the ticker, or nil when none exists.
func (r *predictionSignalRepository) FindLatest(ctx context.Context, ticker string) (*entity.PredictionSignal, error) {
	var signal entity.PredictionSignal
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("created_at desc").
		First(&signal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &signal, nil
}
