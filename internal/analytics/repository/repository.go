package repository

import (
	"context"

	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/entity"
)

// SentimentAnalyzer scores articles. Analyze scores one article; AnalyzeBatch
// scores a set in one call and may fail as a whole, in which case the caller
// falls back to per-article analysis.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, article entity.Article) (*dto.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, articles []entity.Article) ([]dto.AnalysisResult, error)
}

// ArticleRepository is the system-of-record store for articles.
type ArticleRepository interface {
	CreateIgnoreConflict(ctx context.Context, articles []entity.Article) error
	FindByTicker(ctx context.Context, ticker string) ([]entity.Article, error)
	FindByTickerAndRange(ctx context.Context, ticker, startDate, endDate string) ([]entity.Article, error)
}

// PriceRepository stores and serves OHLCV bars.
type PriceRepository interface {
	CreateIgnoreConflict(ctx context.Context, bars []entity.PriceBar) error
	FindByTickerAndRange(ctx context.Context, ticker, startDate, endDate string) ([]entity.PriceBar, error)
}

// PredictionSignalRepository stores prediction signals with their model artifacts.
type PredictionSignalRepository interface {
	Create(ctx context.Context, signal *entity.PredictionSignal) error
	FindLatest(ctx context.Context, ticker string) (*entity.PredictionSignal, error)
}

// NewsFeedRepository fetches fresh articles for a ticker from an external feed.
type NewsFeedRepository interface {
	Fetch(ctx context.Context, ticker string) ([]entity.Article, error)
}
