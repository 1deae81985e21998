package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/analytics/repository"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/ml"
	"golang-stock-sentiment/pkg/telegram"
	"golang-stock-sentiment/pkg/utils"
)

const (
	defaultMinSamples   = 30
	defaultLookbackDays = 90
)

// signalData is the jsonb payload stored alongside a prediction signal: the
// trained model artifact plus its cross-validation diagnostics.
type signalData struct {
	Artifact *ml.ModelArtifact `json:"artifact"`
	CV       *ml.CVResult      `json:"cv,omitempty"`
}

// PredictionService trains a direction model on joined sentiment and price
// features and serves the resulting signals.
type PredictionService interface {
	Predict(ctx context.Context, ticker string, req dto.PredictionRequest) (*dto.PredictionResponse, error)
	GetLatest(ctx context.Context, ticker string) (*dto.PredictionResponse, error)
}

type predictionService struct {
	cfg        *config.Config
	logger     *logger.Logger
	priceRepo  repository.PriceRepository
	signalRepo repository.PredictionSignalRepository
	jobSvc     SentimentJobService
	notifier   telegram.Notifier
}

// NewPredictionService creates a new PredictionService. notifier is optional.
func NewPredictionService(
	cfg *config.Config,
	log *logger.Logger,
	priceRepo repository.PriceRepository,
	signalRepo repository.PredictionSignalRepository,
	jobSvc SentimentJobService,
	notifier telegram.Notifier,
) PredictionService {
	return &predictionService{
		cfg:        cfg,
		logger:     log,
		priceRepo:  priceRepo,
		signalRepo: signalRepo,
		jobSvc:     jobSvc,
		notifier:   notifier,
	}
}

// BuildFeatureMatrix joins price bars with daily sentiment by calendar date
// and derives one feature row per joined day: positive total, negative total,
// sentiment score, close change, volume change, and intraday range. The first
// bar has no previous bar and days without sentiment are skipped. Labels are
// next-day close direction, so the newest joined day carries no label; its
// features come back as the inference row.
func BuildFeatureMatrix(bars []entity.PriceBar, daily []entity.DailySentiment) ([][]float64, []int, []float64) {
	sentimentByDate := make(map[string]entity.DailySentiment, len(daily))
	for _, day := range daily {
		sentimentByDate[day.Date] = day
	}

	sorted := make([]entity.PriceBar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	var (
		X         [][]float64
		y         []int
		inference []float64
	)
	for i := 1; i < len(sorted); i++ {
		bar, prev := sorted[i], sorted[i-1]
		day, ok := sentimentByDate[bar.Date]
		if !ok {
			continue
		}
		if prev.Close == 0 || prev.Volume == 0 || bar.Close == 0 {
			continue
		}

		features := []float64{
			float64(day.PositiveTotal),
			float64(day.NegativeTotal),
			day.Score,
			(bar.Close - prev.Close) / prev.Close,
			(float64(bar.Volume) - float64(prev.Volume)) / float64(prev.Volume),
			(bar.High - bar.Low) / bar.Close,
		}
		inference = features

		if i+1 < len(sorted) {
			label := 0
			if sorted[i+1].Close > bar.Close {
				label = 1
			}
			X = append(X, features)
			y = append(y, label)
		}
	}
	return X, y, inference
}

func (s *predictionService) Predict(ctx context.Context, ticker string, req dto.PredictionRequest) (*dto.PredictionResponse, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", ErrInvalidArgument)
	}

	startDate, endDate := req.StartDate, req.EndDate
	if startDate == "" && endDate == "" {
		now := time.Now()
		endDate = utils.FormatDate(now)
		startDate = utils.FormatDate(now.AddDate(0, 0, -s.lookbackDays()))
	}
	if err := validateDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	bars, err := s.priceRepo.FindByTickerAndRange(ctx, ticker, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load price bars: %w", err)
	}
	daily, _, err := s.jobSvc.GetResults(ctx, ticker, startDate, endDate)
	if err != nil {
		return nil, err
	}

	X, y, inference := BuildFeatureMatrix(bars, daily)
	minSamples := s.minSamples()
	if len(X) < minSamples || inference == nil {
		return nil, fmt.Errorf("%w: %d usable samples for %s, need at least %d",
			ErrInsufficientData, len(X), ticker, minSamples)
	}

	model := ml.NewLogisticRegressionCV(
		s.cfg.Prediction.LearningRate,
		s.cfg.Prediction.Epochs,
		s.cfg.Prediction.Folds,
	)
	if err := model.FitCV(X, y); err != nil {
		return nil, fmt.Errorf("failed to train prediction model: %w", err)
	}
	probs, err := model.PredictProba([][]float64{inference})
	if err != nil {
		return nil, fmt.Errorf("failed to score inference row: %w", err)
	}
	probability := probs[0]

	direction := entity.DirectionDown
	if probability >= 0.5 {
		direction = entity.DirectionUp
	}

	artifact, err := model.Artifact()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(signalData{Artifact: artifact, CV: model.CV})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model artifact: %w", err)
	}

	signal := &entity.PredictionSignal{
		Ticker:      ticker,
		Direction:   direction,
		Probability: probability,
		SampleCount: len(X),
		Data:        datatypes.JSON(data),
	}
	if model.CV != nil {
		signal.CVAccuracy = model.CV.Mean
	}
	if err := s.signalRepo.Create(ctx, signal); err != nil {
		return nil, fmt.Errorf("failed to store prediction signal: %w", err)
	}

	s.logger.Info("Prediction signal created",
		logger.StringField("ticker", ticker),
		logger.StringField("direction", direction),
		logger.Field("probability", probability),
		logger.IntField("sample_count", len(X)))
	s.notify(ctx, telegram.FormatPredictionSignal(signal))

	return newPredictionResponse(signal), nil
}

// GetLatest returns the most recent stored signal for the ticker, or nil when
// none exists.
func (s *predictionService) GetLatest(ctx context.Context, ticker string) (*dto.PredictionResponse, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", ErrInvalidArgument)
	}

	signal, err := s.signalRepo.FindLatest(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction signal: %w", err)
	}
	if signal == nil {
		return nil, nil
	}
	return newPredictionResponse(signal), nil
}

func newPredictionResponse(signal *entity.PredictionSignal) *dto.PredictionResponse {
	resp := &dto.PredictionResponse{
		SignalID:    signal.ID,
		Ticker:      signal.Ticker,
		Direction:   signal.Direction,
		Probability: signal.Probability,
		CVAccuracy:  signal.CVAccuracy,
		SampleCount: signal.SampleCount,
		CreatedAt:   signal.CreatedAt,
	}
	var data signalData
	if err := json.Unmarshal(signal.Data, &data); err == nil && data.CV != nil {
		resp.CVStd = data.CV.Std
	}
	return resp
}

func (s *predictionService) notify(ctx context.Context, text string) {
	if s.notifier == nil {
		return
	}
	// The notification may outlive the request context.
	sendCtx := context.WithoutCancel(ctx)
	utils.GoSafe(func() {
		if err := s.notifier.SendMessage(sendCtx, text); err != nil {
			s.logger.Warn("Failed to send telegram notification", logger.ErrorField(err))
		}
	})
}

func (s *predictionService) minSamples() int {
	if s.cfg.Prediction.MinSamples > 0 {
		return s.cfg.Prediction.MinSamples
	}
	return defaultMinSamples
}

func (s *predictionService) lookbackDays() int {
	if s.cfg.Scheduler.LookbackDays > 0 {
		return s.cfg.Scheduler.LookbackDays
	}
	return defaultLookbackDays
}
