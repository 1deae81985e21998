package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/analytics/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/cache"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/telegram"
	"golang-stock-sentiment/pkg/utils"
)

const (
	defaultSentimentTTLDays = 30
	defaultArticleTTLDays   = 7
	defaultJobTTLDays       = 7
	defaultMaxRetries       = 3
	defaultBaseDelay        = 100 * time.Millisecond
	defaultMaxConcurrent    = 10
)

// SentimentJobService orchestrates sentiment analysis runs. Trigger enqueues
// a job and returns immediately; Process executes the pipeline; clients
// observe progress with GetStatus and read aggregates with GetResults.
type SentimentJobService interface {
	Trigger(ctx context.Context, req dto.TriggerSentimentJobRequest) (*entity.SentimentJob, bool, error)
	Process(ctx context.Context, task dto.SentimentJobTask) error
	GetStatus(ctx context.Context, jobID string) (*entity.SentimentJob, error)
	GetResults(ctx context.Context, ticker, startDate, endDate string) ([]entity.DailySentiment, bool, error)
	CacheArticles(ctx context.Context, articles []entity.Article) error
}

type sentimentJobService struct {
	cfg         *config.Config
	logger      *logger.Logger
	store       cache.Store
	analyzer    repository.SentimentAnalyzer
	articleRepo repository.ArticleRepository
	queue       TaskQueue
	notifier    telegram.Notifier
}

// NewSentimentJobService creates a new SentimentJobService. articleRepo and
// notifier are optional; without articleRepo the pipeline runs cache-only.
func NewSentimentJobService(
	cfg *config.Config,
	log *logger.Logger,
	store cache.Store,
	analyzer repository.SentimentAnalyzer,
	articleRepo repository.ArticleRepository,
	queue TaskQueue,
	notifier telegram.Notifier,
) SentimentJobService {
	return &sentimentJobService{
		cfg:         cfg,
		logger:      log,
		store:       store,
		analyzer:    analyzer,
		articleRepo: articleRepo,
		queue:       queue,
		notifier:    notifier,
	}
}

func (s *sentimentJobService) Trigger(ctx context.Context, req dto.TriggerSentimentJobRequest) (*entity.SentimentJob, bool, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, false, fmt.Errorf("%w: ticker is required", ErrInvalidArgument)
	}
	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, false, err
	}

	jobID := entity.SentimentJobID(ticker, req.StartDate, req.EndDate)
	existing, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Status == entity.JobStatusCompleted {
			s.logger.Info("Sentiment job already completed, serving cached job",
				logger.StringField("job_id", jobID))
			return existing, true, nil
		}
		// Pending and running jobs hand back the same pollable record. A
		// failed job keeps its recorded outcome until the record expires;
		// it is never silently overwritten by a re-trigger.
		return existing, false, nil
	}

	now := time.Now()
	job := &entity.SentimentJob{
		JobID:     jobID,
		Ticker:    ticker,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    entity.JobStatusPending,
		StartedAt: now,
		ExpiresAt: cache.ExpiryEpoch(now, s.jobTTLDays()),
	}
	stored, err := s.createJob(ctx, job)
	if err != nil {
		return nil, false, err
	}
	if !stored {
		// Lost the race to a concurrent trigger; hand back the winner's record.
		winner, err := s.getJob(ctx, jobID)
		if err != nil {
			return nil, false, err
		}
		if winner != nil {
			return winner, winner.Status == entity.JobStatusCompleted, nil
		}
	}

	task := dto.SentimentJobTask{
		JobID:     jobID,
		Ticker:    ticker,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.queue.EnqueueSentimentJob(ctx, task); err != nil {
		return nil, false, fmt.Errorf("failed to enqueue sentiment job %s: %w", jobID, err)
	}

	s.logger.Info("Sentiment job triggered",
		logger.StringField("job_id", jobID),
		logger.StringField("ticker", ticker))
	return job, false, nil
}

func (s *sentimentJobService) Process(ctx context.Context, task dto.SentimentJobTask) error {
	job, err := s.getJob(ctx, task.JobID)
	if err != nil {
		return err
	}
	if job == nil {
		// The job record may have expired while the task sat in the stream.
		// Rebuild it from the task payload so the run is still observable.
		now := time.Now()
		job = &entity.SentimentJob{
			JobID:     task.JobID,
			Ticker:    strings.ToUpper(task.Ticker),
			StartDate: task.StartDate,
			EndDate:   task.EndDate,
			Status:    entity.JobStatusPending,
			StartedAt: now,
			ExpiresAt: cache.ExpiryEpoch(now, s.jobTTLDays()),
		}
	}
	if job.Status.Terminal() {
		s.logger.Info("Skipping already finished sentiment job",
			logger.StringField("job_id", job.JobID),
			logger.StringField("status", string(job.Status)))
		return nil
	}

	job.Status = entity.JobStatusInProgress
	if err := s.putJob(ctx, job); err != nil {
		return err
	}
	s.logger.Info("Processing sentiment job", logger.StringField("job_id", job.JobID))

	processed, daily, pipeErr := s.runPipeline(ctx, job)
	now := time.Now()
	job.CompletedAt = &now
	if pipeErr != nil {
		job.Status = entity.JobStatusFailed
		job.Error = pipeErr.Error()
		if putErr := s.putJob(ctx, job); putErr != nil {
			s.logger.Error("Failed to persist failed sentiment job",
				logger.StringField("job_id", job.JobID),
				logger.ErrorField(putErr))
		}
		s.logger.Error("Sentiment job failed",
			logger.StringField("job_id", job.JobID),
			logger.ErrorField(pipeErr))
		s.notify(ctx, telegram.FormatJobResult(job, nil))
		return pipeErr
	}

	job.Status = entity.JobStatusCompleted
	job.ArticlesProcessed = processed
	if err := s.putJob(ctx, job); err != nil {
		return err
	}
	s.logger.Info("Sentiment job completed",
		logger.StringField("job_id", job.JobID),
		logger.IntField("articles_processed", processed),
		logger.IntField("days_aggregated", len(daily)))
	s.notify(ctx, telegram.FormatJobResult(job, daily))
	return nil
}

func (s *sentimentJobService) GetStatus(ctx context.Context, jobID string) (*entity.SentimentJob, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidArgument)
	}
	return s.getJob(ctx, jobID)
}

// GetResults serves the daily aggregate for a ticker regardless of job state;
// a partially processed range simply yields fewer days. Cached reports
// whether any sentiment records were found.
func (s *sentimentJobService) GetResults(ctx context.Context, ticker, startDate, endDate string) ([]entity.DailySentiment, bool, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, false, fmt.Errorf("%w: ticker is required", ErrInvalidArgument)
	}
	if (startDate == "") != (endDate == "") {
		return nil, false, fmt.Errorf("%w: start and end date must be provided together", ErrInvalidArgument)
	}

	var (
		articles []entity.Article
		err      error
	)
	switch {
	case startDate != "":
		if err = validateDateRange(startDate, endDate); err != nil {
			return nil, false, err
		}
		articles, err = s.fetchArticles(ctx, ticker, startDate, endDate)
	case s.articleRepo != nil:
		articles, err = s.articleRepo.FindByTicker(ctx, ticker)
	default:
		return nil, false, fmt.Errorf("%w: date range is required", ErrInvalidArgument)
	}
	if err != nil {
		return nil, false, err
	}
	if len(articles) == 0 {
		return []entity.DailySentiment{}, false, nil
	}

	daily, err := s.aggregateFromCache(ctx, ticker, articles)
	if err != nil {
		return nil, false, err
	}
	return daily, len(daily) > 0, nil
}

// CacheArticles writes articles to the cache grouped per (ticker, date) key.
// Each day's slice is written whole, so callers must pass the complete set
// they want stored for that day.
func (s *sentimentJobService) CacheArticles(ctx context.Context, articles []entity.Article) error {
	if len(articles) == 0 {
		return nil
	}

	grouped := make(map[string][]entity.Article)
	for _, article := range articles {
		key := cache.GenerateArticleKey(article.Ticker, article.Date)
		grouped[key] = append(grouped[key], article)
	}

	items := make([]cache.Item, 0, len(grouped))
	for key, day := range grouped {
		value, err := json.Marshal(day)
		if err != nil {
			return fmt.Errorf("failed to marshal articles for %s: %w", key, err)
		}
		items = append(items, cache.Item{Key: key, Value: value})
	}

	ttl := cache.TTLFromDays(s.articleTTLDays())
	err := cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
		return s.store.BatchPut(ctx, items, ttl)
	})
	if err != nil {
		return fmt.Errorf("failed to cache articles: %w", err)
	}
	return nil
}

// runPipeline executes one sentiment run: fetch articles, skip the already
// analyzed ones, analyze the rest, persist the records, and aggregate per day.
// The returned count is the number of articles scheduled for analysis, which
// may exceed the number that produced a record.
func (s *sentimentJobService) runPipeline(ctx context.Context, job *entity.SentimentJob) (int, []entity.DailySentiment, error) {
	articles, err := s.fetchArticles(ctx, job.Ticker, job.StartDate, job.EndDate)
	if err != nil {
		return 0, nil, err
	}
	if len(articles) == 0 {
		s.logger.Info("No articles found in range",
			logger.StringField("job_id", job.JobID))
		return 0, nil, nil
	}

	toAnalyze := s.partitionUnanalyzed(ctx, job.Ticker, articles)
	if !utils.ShouldContinue(ctx, s.logger) {
		return 0, nil, ctx.Err()
	}
	s.logger.Info("Partitioned articles for analysis",
		logger.StringField("job_id", job.JobID),
		logger.IntField("total", len(articles)),
		logger.IntField("to_analyze", len(toAnalyze)))

	results := s.analyzeWithEscalation(ctx, toAnalyze)
	if !utils.ShouldContinue(ctx, s.logger) {
		return 0, nil, ctx.Err()
	}

	if err := s.persistResults(ctx, job.Ticker, results); err != nil {
		return 0, nil, err
	}

	daily, err := s.aggregateFromCache(ctx, job.Ticker, articles)
	if err != nil {
		return 0, nil, err
	}
	return len(toAnalyze), daily, nil
}

// fetchArticles reads the per-day article sets from the cache, falling back
// to the article repository when the cache has nothing for the range.
func (s *sentimentJobService) fetchArticles(ctx context.Context, ticker, startDate, endDate string) ([]entity.Article, error) {
	dates, err := utils.DatesBetween(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	keys := make([]string, len(dates))
	for i, date := range dates {
		keys[i] = cache.GenerateArticleKey(ticker, date)
	}

	var items []cache.Item
	err = cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
		var e error
		items, e = s.store.BatchGet(ctx, keys)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cached articles: %w", err)
	}

	var articles []entity.Article
	for _, item := range items {
		var day []entity.Article
		if err := json.Unmarshal(item.Value, &day); err != nil {
			s.logger.Warn("Skipping malformed cached article entry",
				logger.StringField("key", item.Key),
				logger.ErrorField(err))
			continue
		}
		articles = append(articles, day...)
	}

	if len(articles) == 0 && s.articleRepo != nil {
		articles, err = s.articleRepo.FindByTickerAndRange(ctx, ticker, startDate, endDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load articles from repository: %w", err)
		}
		if len(articles) > 0 {
			if cacheErr := s.CacheArticles(ctx, articles); cacheErr != nil {
				s.logger.Warn("Failed to warm article cache",
					logger.StringField("ticker", ticker),
					logger.ErrorField(cacheErr))
			}
		}
	}

	inRange := make([]entity.Article, 0, len(articles))
	for _, article := range articles {
		if utils.InDateRange(article.Date, startDate, endDate) {
			inRange = append(inRange, article)
		}
	}
	return inRange, nil
}

// partitionUnanalyzed returns the articles that have no sentiment record yet.
// Existence checks run concurrently, bounded by the analyzer concurrency cap.
// A failed check schedules the article for analysis; the conditional record
// write makes a redundant re-analysis harmless.
func (s *sentimentJobService) partitionUnanalyzed(ctx context.Context, ticker string, articles []entity.Article) []entity.Article {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		toAnalyze []entity.Article
	)
	sem := make(chan struct{}, s.maxConcurrent())

	for _, article := range articles {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(article entity.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			key := cache.GenerateSentimentKey(ticker, article.Hash)
			var exists bool
			err := cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
				var e error
				exists, e = s.store.Exists(ctx, key)
				return e
			})
			if err != nil {
				s.logger.Warn("Existence check failed, scheduling analysis",
					logger.StringField("key", key),
					logger.ErrorField(err))
				exists = false
			}
			if !exists {
				mu.Lock()
				toAnalyze = append(toAnalyze, article)
				mu.Unlock()
			}
		}(article)
	}
	wg.Wait()
	return toAnalyze
}

// analyzeWithEscalation tries one batch call, retries the batch once, then
// falls back to per-article analysis where individual failures are dropped.
func (s *sentimentJobService) analyzeWithEscalation(ctx context.Context, articles []entity.Article) []dto.AnalysisResult {
	if len(articles) == 0 {
		return nil
	}

	results, err := s.analyzer.AnalyzeBatch(ctx, articles)
	if err != nil && utils.ShouldContinue(ctx, s.logger) {
		s.logger.Warn("Batch analysis failed, retrying once", logger.ErrorField(err))
		results, err = s.analyzer.AnalyzeBatch(ctx, articles)
	}
	if err == nil {
		return results
	}

	s.logger.Warn("Batch analysis failed twice, falling back to per-article analysis",
		logger.ErrorField(err))
	return s.analyzeIndividually(ctx, articles)
}

func (s *sentimentJobService) analyzeIndividually(ctx context.Context, articles []entity.Article) []dto.AnalysisResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []dto.AnalysisResult
	)
	sem := make(chan struct{}, s.maxConcurrent())

	for _, article := range articles {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(article entity.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.analyzer.Analyze(ctx, article)
			if err != nil {
				s.logger.Warn("Dropping article after failed analysis",
					logger.StringField("hash", article.Hash),
					logger.ErrorField(err))
				return
			}
			mu.Lock()
			results = append(results, *result)
			mu.Unlock()
		}(article)
	}
	wg.Wait()
	return results
}

// persistResults writes one sentiment record per analysis result. The batch
// may overwrite, which is safe here: the input set was pre-filtered against
// existing records.
func (s *sentimentJobService) persistResults(ctx context.Context, ticker string, results []dto.AnalysisResult) error {
	if len(results) == 0 {
		return nil
	}

	now := time.Now()
	items := make([]cache.Item, 0, len(results))
	for _, result := range results {
		record := entity.SentimentRecord{
			Ticker:         ticker,
			ArticleHash:    result.Hash,
			PositiveCount:  result.Positive.Count,
			NegativeCount:  result.Negative.Count,
			Score:          result.Score,
			Classification: entity.ClassifySentimentScore(result.Score),
			AnalyzedAt:     now,
			ExpiresAt:      cache.ExpiryEpoch(now, s.sentimentTTLDays()),
		}
		value, err := json.Marshal(record)
		if err != nil {
			s.logger.Warn("Failed to marshal sentiment record",
				logger.StringField("hash", result.Hash),
				logger.ErrorField(err))
			continue
		}
		items = append(items, cache.Item{
			Key:   cache.GenerateSentimentKey(ticker, result.Hash),
			Value: value,
		})
	}

	ttl := cache.TTLFromDays(s.sentimentTTLDays())
	err := cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
		return s.store.BatchPut(ctx, items, ttl)
	})
	if err != nil {
		return fmt.Errorf("failed to persist sentiment records: %w", err)
	}
	return nil
}

// aggregateFromCache re-reads the sentiment records for the given articles
// and folds them into per-day aggregates.
func (s *sentimentJobService) aggregateFromCache(ctx context.Context, ticker string, articles []entity.Article) ([]entity.DailySentiment, error) {
	keys := make([]string, len(articles))
	for i, article := range articles {
		keys[i] = cache.GenerateSentimentKey(ticker, article.Hash)
	}

	var items []cache.Item
	err := cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
		var e error
		items, e = s.store.BatchGet(ctx, keys)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read sentiment records: %w", err)
	}

	records := make([]entity.SentimentRecord, 0, len(items))
	for _, item := range items {
		var record entity.SentimentRecord
		if err := json.Unmarshal(item.Value, &record); err != nil {
			s.logger.Warn("Skipping malformed sentiment record",
				logger.StringField("key", item.Key),
				logger.ErrorField(err))
			continue
		}
		records = append(records, record)
	}
	return AggregateDaily(records, articles), nil
}

func (s *sentimentJobService) getJob(ctx context.Context, jobID string) (*entity.SentimentJob, error) {
	var item *cache.Item
	err := cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
		var e error
		item, e = s.store.Get(ctx, cache.GenerateJobKey(jobID))
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read job %s: %w", jobID, err)
	}
	if item == nil {
		return nil, nil
	}

	var job entity.SentimentJob
	if err := json.Unmarshal(item.Value, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job %s: %w", jobID, err)
	}
	return &job, nil
}

// createJob writes a new job record only when none exists. Returns false when
// a concurrent trigger already created one.
func (s *sentimentJobService) createJob(ctx context.Context, job *entity.SentimentJob) (bool, error) {
	value, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("failed to marshal job %s: %w", job.JobID, err)
	}

	item := cache.Item{Key: cache.GenerateJobKey(job.JobID), Value: value}
	ttl := cache.TTLFromDays(s.jobTTLDays())
	var stored bool
	err = cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
		var e error
		stored, e = s.store.PutIfAbsent(ctx, item, ttl)
		return e
	})
	if err != nil {
		return false, fmt.Errorf("failed to persist job %s: %w", job.JobID, err)
	}
	return stored, nil
}

func (s *sentimentJobService) putJob(ctx context.Context, job *entity.SentimentJob) error {
	value, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.JobID, err)
	}

	item := cache.Item{Key: cache.GenerateJobKey(job.JobID), Value: value}
	ttl := cache.TTLFromDays(s.jobTTLDays())
	err = cache.WithRetry(ctx, s.maxRetries(), s.baseDelay(), func(ctx context.Context) error {
		return s.store.Put(ctx, item, ttl)
	})
	if err != nil {
		return fmt.Errorf("failed to persist job %s: %w", job.JobID, err)
	}
	return nil
}

func (s *sentimentJobService) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	// The notification may outlive the job context.
	sendCtx := context.WithoutCancel(ctx)
	utils.GoSafe(func() {
		if err := s.notifier.SendMessage(sendCtx, text); err != nil {
			s.logger.Warn("Failed to send telegram notification", logger.ErrorField(err))
		}
	})
}

func validateDateRange(startDate, endDate string) error {
	if _, err := utils.ParseDate(startDate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if _, err := utils.ParseDate(endDate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if endDate < startDate {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidArgument, endDate, startDate)
	}
	return nil
}

func (s *sentimentJobService) sentimentTTLDays() int {
	if s.cfg.Cache.SentimentTTLDays > 0 {
		return s.cfg.Cache.SentimentTTLDays
	}
	return defaultSentimentTTLDays
}

func (s *sentimentJobService) articleTTLDays() int {
	if s.cfg.Cache.ArticleTTLDays > 0 {
		return s.cfg.Cache.ArticleTTLDays
	}
	return defaultArticleTTLDays
}

func (s *sentimentJobService) jobTTLDays() int {
	if s.cfg.Cache.JobTTLDays > 0 {
		return s.cfg.Cache.JobTTLDays
	}
	return defaultJobTTLDays
}

func (s *sentimentJobService) maxRetries() int {
	if s.cfg.Cache.MaxRetries > 0 {
		return s.cfg.Cache.MaxRetries
	}
	return defaultMaxRetries
}

func (s *sentimentJobService) baseDelay() time.Duration {
	if s.cfg.Cache.BaseDelayMs > 0 {
		return time.Duration(s.cfg.Cache.BaseDelayMs) * time.Millisecond
	}
	return defaultBaseDelay
}

func (s *sentimentJobService) maxConcurrent() int {
	if s.cfg.Analyzer.MaxConcurrent > 0 {
		return s.cfg.Analyzer.MaxConcurrent
	}
	return defaultMaxConcurrent
}
