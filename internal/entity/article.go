package entity

import (
	"time"

	"github.com/lib/pq"
)

// Article is a news article tied to a ticker. Identity is (ticker, hash),
// where the hash is derived from the article URL; an article is immutable
// once stored.
type Article struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Ticker      string         `gorm:"type:varchar(16);not null;uniqueIndex:idx_articles_ticker_hash" json:"ticker"`
	Hash        string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_articles_ticker_hash" json:"hash"`
	Date        string         `gorm:"type:varchar(10);not null;index" json:"date"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	URL         string         `gorm:"type:text" json:"url"`
	Source      string         `json:"source"`
	Topics      pq.StringArray `gorm:"type:text[]" json:"topics,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"-"`
}

// TableName specifies the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}

// Text returns the analyzable text of the article.
func (a Article) Text() string {
	if a.Description == "" {
		return a.Title
	}
	return a.Title + " " + a.Description
}
