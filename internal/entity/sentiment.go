package entity

import (
	"time"

	"golang-stock-sentiment/pkg/common"
)

// Sentiment classifications.
const (
	SentimentPositive = "POS"
	SentimentNegative = "NEG"
	SentimentNeutral  = "NEUT"
)

// ClassifySentimentScore maps a score in [-1, 1] onto a classification using
// the shared thresholds.
func ClassifySentimentScore(score float64) string {
	switch {
	case score > common.SentimentPositiveThreshold:
		return SentimentPositive
	case score < common.SentimentNegativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentimentRecord is the persisted per-article sentiment signal. It is
// written once per (ticker, articleHash); the single-item cache write is
// conditional, so an existing record is preserved rather than overwritten.
type SentimentRecord struct {
	Ticker         string    `json:"ticker"`
	ArticleHash    string    `json:"article_hash"`
	PositiveCount  int       `json:"positive_count"`
	NegativeCount  int       `json:"negative_count"`
	Score          float64   `json:"score"`
	Classification string    `json:"classification"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
	ExpiresAt      int64     `json:"expires_at"`
}

// DailySentiment is the per-calendar-date aggregate of sentiment records.
// It is derived on demand, never persisted independently.
type DailySentiment struct {
	Date           string  `json:"date"`
	PositiveTotal  int     `json:"positive_total"`
	NegativeTotal  int     `json:"negative_total"`
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
	ArticleCount   int     `json:"article_count"`
}
