package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

// SchedulerService runs the periodic ingestion and prediction passes over the
// configured tickers.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

type schedulerService struct {
	cfg           *config.Config
	logger        *logger.Logger
	ingestionSvc  IngestionService
	jobSvc        SentimentJobService
	predictionSvc PredictionService
	cron          *cron.Cron
}

// NewSchedulerService creates a new SchedulerService.
func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	ingestionSvc IngestionService,
	jobSvc SentimentJobService,
	predictionSvc PredictionService,
) SchedulerService {
	return &schedulerService{
		cfg:           cfg,
		logger:        log,
		ingestionSvc:  ingestionSvc,
		jobSvc:        jobSvc,
		predictionSvc: predictionSvc,
		cron:          cron.New(),
	}
}

// Start registers the configured cron entries and starts the scheduler. An
// empty cron expression disables that pass.
func (s *schedulerService) Start(ctx context.Context) error {
	if expr := s.cfg.Scheduler.IngestionCron; expr != "" {
		if _, err := s.cron.AddFunc(expr, func() { s.runIngestion(ctx) }); err != nil {
			return err
		}
	}
	if expr := s.cfg.Scheduler.PredictionCron; expr != "" {
		if _, err := s.cron.AddFunc(expr, func() { s.runPrediction(ctx) }); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.StringField("ingestion_cron", s.cfg.Scheduler.IngestionCron),
		logger.StringField("prediction_cron", s.cfg.Scheduler.PredictionCron),
		logger.IntField("tickers", len(s.cfg.Scheduler.Tickers)))
	return nil
}

// Stop stops the scheduler and waits for running entries to finish.
func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// runIngestion ingests every configured ticker, bounded by the ingestion
// concurrency cap, then triggers a sentiment job over the lookback window.
func (s *schedulerService) runIngestion(ctx context.Context) {
	now := time.Now()
	endDate := utils.FormatDate(now)
	startDate := utils.FormatDate(now.AddDate(0, 0, -s.lookbackDays()))

	maxConcurrent := s.cfg.Ingestion.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for _, ticker := range s.cfg.Scheduler.Tickers {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(ticker string) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := s.ingestionSvc.IngestTicker(ctx, ticker); err != nil {
				s.logger.Error("Scheduled ingestion failed",
					logger.StringField("ticker", ticker),
					logger.ErrorField(err))
				return
			}
			req := dto.TriggerSentimentJobRequest{
				Ticker:    ticker,
				StartDate: startDate,
				EndDate:   endDate,
			}
			if _, _, err := s.jobSvc.Trigger(ctx, req); err != nil {
				s.logger.Error("Failed to trigger scheduled sentiment job",
					logger.StringField("ticker", ticker),
					logger.ErrorField(err))
			}
		}(ticker)
	}
	wg.Wait()
}

// runPrediction builds a fresh signal for every configured ticker over the
// default lookback window. Tickers without enough joined samples are skipped.
func (s *schedulerService) runPrediction(ctx context.Context) {
	for _, ticker := range s.cfg.Scheduler.Tickers {
		if !utils.ShouldContinue(ctx, s.logger) {
			return
		}
		_, err := s.predictionSvc.Predict(ctx, ticker, dto.PredictionRequest{})
		if err != nil {
			if errors.Is(err, ErrInsufficientData) {
				s.logger.Warn("Skipping prediction, not enough samples",
					logger.StringField("ticker", ticker),
					logger.ErrorField(err))
				continue
			}
			s.logger.Error("Scheduled prediction failed",
				logger.StringField("ticker", ticker),
				logger.ErrorField(err))
		}
	}
}

func (s *schedulerService) lookbackDays() int {
	if s.cfg.Scheduler.LookbackDays > 0 {
		return s.cfg.Scheduler.LookbackDays
	}
	return defaultLookbackDays
}
