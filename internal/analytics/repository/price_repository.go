package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-stock-sentiment/internal/entity"
)

// NewPriceRepository creates a new instance of PriceRepository.
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

type priceRepository struct {
	db *gorm.DB
}

func (r *priceRepository) CreateIgnoreConflict(ctx context.Context, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&bars).Error
}

func (r *priceRepository) FindByTickerAndRange(ctx context.Context, ticker, startDate, endDate string) ([]entity.PriceBar, error) {
	var bars []entity.PriceBar
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND date BETWEEN ? AND ?", ticker, startDate, endDate).
		Order("date asc").
		Find(&bars).Error
	return bars, err
}
