package entity

import "time"

// PriceBar is one OHLCV row for a ticker and trading day.
type PriceBar struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Ticker    string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_price_bars_ticker_date" json:"ticker"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_price_bars_ticker_date" json:"date"`
	Open      float64   `gorm:"not null" json:"open"`
	High      float64   `gorm:"not null" json:"high"`
	Low       float64   `gorm:"not null" json:"low"`
	Close     float64   `gorm:"not null" json:"close"`
	Volume    int64     `gorm:"not null" json:"volume"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// TableName specifies the table name for the PriceBar model.
func (PriceBar) TableName() string {
	return "price_bars"
}
