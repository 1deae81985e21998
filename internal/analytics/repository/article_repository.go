package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"golang-stock-sentiment/internal/entity"
)

// NewArticleRepository creates a new instance of ArticleRepository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

type articleRepository struct {
	db *gorm.DB
}

// CreateIgnoreConflict inserts articles, silently skipping any whose
// (ticker, hash) identity already exists. Articles are immutable once stored.
func (r *articleRepository) CreateIgnoreConflict(ctx context.Context, articles []entity.Article) error {
	if len(articles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "hash"}},
		DoNothing: true,
	}).Create(&articles).Error
}

func (r *articleRepository) FindByTicker(ctx context.Context, ticker string) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date asc").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) FindByTickerAndRange(ctx context.Context, ticker, startDate, endDate string) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND date BETWEEN ? AND ?", ticker, startDate, endDate).
		Order("date asc").
		Find(&articles).Error
	return articles, err
}
