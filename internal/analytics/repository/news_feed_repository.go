package repository

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

// newsFeedRepository fetches ticker news from an RSS feed and normalizes the
// items into articles. Content extraction failures degrade to the feed's own
// description; they never fail the fetch.
type newsFeedRepository struct {
	cfg    *config.Config
	logger *logger.Logger
	client *http.Client
}

// NewNewsFeedRepository creates a new instance of NewsFeedRepository.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	return &newsFeedRepository{
		cfg:    cfg,
		logger: log,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch pulls the feed for ticker and returns the fresh articles, newest
// first capped at the configured maximum.
func (r *newsFeedRepository) Fetch(ctx context.Context, ticker string) ([]entity.Article, error) {
	feedURL := fmt.Sprintf("%s?q=%s", r.cfg.Ingestion.FeedBaseURL, url.QueryEscape(ticker))

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed for %s: %w", ticker, err)
	}

	maxAge := time.Duration(r.cfg.Ingestion.MaxAgeDays) * 24 * time.Hour
	cutoff := time.Now().Add(-maxAge)

	var articles []entity.Article
	for _, item := range feed.Items {
		if !utils.ShouldContinue(ctx, r.logger) {
			break
		}
		if r.cfg.Ingestion.MaxArticles > 0 && len(articles) >= r.cfg.Ingestion.MaxArticles {
			break
		}
		if item.PublishedParsed == nil {
			r.logger.Debug("Skipping item without published date", logger.StringField("link", item.Link))
			continue
		}
		if r.cfg.Ingestion.MaxAgeDays > 0 && item.PublishedParsed.Before(cutoff) {
			continue
		}

		parsedURL, err := url.Parse(item.Link)
		if err != nil {
			r.logger.Warn("Skipping item with unparseable link", logger.StringField("link", item.Link), logger.ErrorField(err))
			continue
		}
		if utils.ContainsString(r.cfg.Ingestion.BlacklistedDomains, parsedURL.Hostname()) {
			r.logger.Debug("Skipping blacklisted domain", logger.StringField("domain", parsedURL.Hostname()))
			continue
		}

		hash := md5.Sum([]byte(item.Link))

		article := entity.Article{
			Ticker:      strings.ToUpper(ticker),
			Hash:        hex.EncodeToString(hash[:]),
			Date:        utils.FormatDate(*item.PublishedParsed),
			Title:       utils.CleanToValidUTF8(item.Title),
			Description: r.extractDescription(ctx, item),
			URL:         item.Link,
			Source:      parsedURL.Hostname(),
			Topics:      item.Categories,
		}
		articles = append(articles, article)
	}

	r.logger.Info("Fetched feed articles",
		logger.StringField("ticker", ticker),
		logger.IntField("total_items", len(feed.Items)),
		logger.IntField("articles", len(articles)),
	)
	return articles, nil
}

// extractDescription returns the best available article text: the readability
// extraction of the full page when content fetching is enabled and succeeds,
// else the feed item's own description stripped of markup.
func (r *newsFeedRepository) extractDescription(ctx context.Context, item *gofeed.Item) string {
	if r.cfg.Ingestion.FetchContent {
		if content, err := r.fetchPageContent(ctx, item.Link); err == nil && content != "" {
			return content
		} else if err != nil {
			r.logger.Debug("Falling back to feed description", logger.StringField("link", item.Link), logger.ErrorField(err))
		}
	}
	return stripHTML(item.Description)
}

func (r *newsFeedRepository) fetchPageContent(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch page, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse page content: %w", err)
	}

	return utils.CleanToValidUTF8(stripHTML(doc.Content())), nil
}

func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(fragment)))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	text := doc.Text()
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}
