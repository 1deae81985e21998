package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/cache"
	"golang-stock-sentiment/pkg/logger"
)

// IngestionService pulls fresh articles from the news feed into the article
// store and the cache.
type IngestionService interface {
	IngestTicker(ctx context.Context, ticker string) (int, error)
}

type ingestionService struct {
	cfg         *config.Config
	logger      *logger.Logger
	store       cache.Store
	feedRepo    repository.NewsFeedRepository
	articleRepo repository.ArticleRepository
	jobSvc      SentimentJobService
}

// NewIngestionService creates a new IngestionService. articleRepo is
// optional; without it fetched articles live in the cache only.
func NewIngestionService(
	cfg *config.Config,
	log *logger.Logger,
	store cache.Store,
	feedRepo repository.NewsFeedRepository,
	articleRepo repository.ArticleRepository,
	jobSvc SentimentJobService,
) IngestionService {
	return &ingestionService{
		cfg:         cfg,
		logger:      log,
		store:       store,
		feedRepo:    feedRepo,
		articleRepo: articleRepo,
		jobSvc:      jobSvc,
	}
}

// IngestTicker fetches the feed for one ticker, persists new articles, and
// refreshes the per-day cache entries. Returns the number of fetched articles.
func (s *ingestionService) IngestTicker(ctx context.Context, ticker string) (int, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return 0, fmt.Errorf("%w: ticker is required", ErrInvalidArgument)
	}

	fetched, err := s.feedRepo.Fetch(ctx, ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch feed for %s: %w", ticker, err)
	}
	if len(fetched) == 0 {
		s.logger.Info("Feed returned no articles", logger.StringField("ticker", ticker))
		return 0, nil
	}

	minDate, maxDate := fetched[0].Date, fetched[0].Date
	for _, article := range fetched[1:] {
		if article.Date < minDate {
			minDate = article.Date
		}
		if article.Date > maxDate {
			maxDate = article.Date
		}
	}

	toCache := fetched
	if s.articleRepo != nil {
		if err := s.articleRepo.CreateIgnoreConflict(ctx, fetched); err != nil {
			return 0, fmt.Errorf("failed to store articles for %s: %w", ticker, err)
		}
		// The repository view includes articles from earlier runs; cache the
		// full day sets so a day's cache entry is never narrowed by a refresh.
		stored, err := s.articleRepo.FindByTickerAndRange(ctx, ticker, minDate, maxDate)
		if err != nil {
			return 0, fmt.Errorf("failed to reload articles for %s: %w", ticker, err)
		}
		toCache = stored
	} else {
		toCache, err = s.mergeWithCached(ctx, ticker, fetched)
		if err != nil {
			return 0, err
		}
	}

	if err := s.jobSvc.CacheArticles(ctx, toCache); err != nil {
		return 0, err
	}

	s.logger.Info("Ingested articles",
		logger.StringField("ticker", ticker),
		logger.IntField("fetched", len(fetched)),
		logger.StringField("from", minDate),
		logger.StringField("to", maxDate))
	return len(fetched), nil
}

// mergeWithCached unions freshly fetched articles with the cached day sets,
// deduplicating by hash, so a cache-only deployment keeps older articles.
func (s *ingestionService) mergeWithCached(ctx context.Context, ticker string, fetched []entity.Article) ([]entity.Article, error) {
	dates := make(map[string]struct{})
	for _, article := range fetched {
		dates[article.Date] = struct{}{}
	}
	keys := make([]string, 0, len(dates))
	for date := range dates {
		keys = append(keys, cache.GenerateArticleKey(ticker, date))
	}

	items, err := s.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached articles for %s: %w", ticker, err)
	}

	seen := make(map[string]struct{})
	var merged []entity.Article
	for _, item := range items {
		var day []entity.Article
		if err := json.Unmarshal(item.Value, &day); err != nil {
			s.logger.Warn("Skipping malformed cached article entry",
				logger.StringField("key", item.Key),
				logger.ErrorField(err))
			continue
		}
		for _, article := range day {
			if _, ok := seen[article.Hash]; ok {
				continue
			}
			seen[article.Hash] = struct{}{}
			merged = append(merged, article)
		}
	}
	for _, article := range fetched {
		if _, ok := seen[article.Hash]; ok {
			continue
		}
		seen[article.Hash] = struct{}{}
		merged = append(merged, article)
	}
	return merged, nil
}
