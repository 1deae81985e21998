package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

func TestBuildFeatureMatrix_JoinAndLabels(t *testing.T) {
	bars := []entity.PriceBar{
		{Date: "2026-01-01", Open: 100, High: 102, Low: 99, Close: 100, Volume: 1000},
		{Date: "2026-01-02", Open: 100, High: 105, Low: 100, Close: 104, Volume: 1200},
		{Date: "2026-01-03", Open: 104, High: 104, Low: 100, Close: 101, Volume: 900},
		{Date: "2026-01-04", Open: 101, High: 103, Low: 100, Close: 102, Volume: 1000},
	}
	daily := []entity.DailySentiment{
		{Date: "2026-01-02", PositiveTotal: 3, NegativeTotal: 1, Score: 0.5},
		{Date: "2026-01-03", PositiveTotal: 0, NegativeTotal: 2, Score: -1},
		{Date: "2026-01-04", PositiveTotal: 1, NegativeTotal: 1, Score: 0},
	}

	X, y, inference := BuildFeatureMatrix(bars, daily)

	// 2026-01-02 and 2026-01-03 are labeled, 2026-01-04 has no next day
	require.Len(t, X, 2)
	require.Len(t, y, 2)

	row := X[0]
	require.Len(t, row, 6)
	assert.Equal(t, 3.0, row[0])
	assert.Equal(t, 1.0, row[1])
	assert.Equal(t, 0.5, row[2])
	assert.InDelta(t, 0.04, row[3], 1e-9)
	assert.InDelta(t, 0.2, row[4], 1e-9)
	assert.InDelta(t, 5.0/104.0, row[5], 1e-9)

	// close 104 -> 101 is down, close 101 -> 102 is up
	assert.Equal(t, []int{0, 1}, y)

	// inference row is the newest joined day
	require.NotNil(t, inference)
	assert.Equal(t, 1.0, inference[0])
	assert.InDelta(t, (102.0-101.0)/101.0, inference[3], 1e-9)
}

func TestBuildFeatureMatrix_SkipsFirstAndUnjoinedDays(t *testing.T) {
	bars := []entity.PriceBar{
		{Date: "2026-01-01", Close: 100, Volume: 1000, High: 101, Low: 99},
		{Date: "2026-01-02", Close: 101, Volume: 1000, High: 102, Low: 100},
		{Date: "2026-01-03", Close: 102, Volume: 1000, High: 103, Low: 101},
	}
	// only the first bar's date has sentiment; it is skipped for lacking a
	// previous bar, so nothing joins
	daily := []entity.DailySentiment{{Date: "2026-01-01", Score: 1}}

	X, y, inference := BuildFeatureMatrix(bars, daily)
	assert.Empty(t, X)
	assert.Empty(t, y)
	assert.Nil(t, inference)
}

func TestBuildFeatureMatrix_SkipsZeroDenominators(t *testing.T) {
	bars := []entity.PriceBar{
		{Date: "2026-01-01", Close: 100, Volume: 0, High: 101, Low: 99},
		{Date: "2026-01-02", Close: 101, Volume: 1000, High: 102, Low: 100},
	}
	daily := []entity.DailySentiment{{Date: "2026-01-02", Score: 0.5}}

	X, _, inference := BuildFeatureMatrix(bars, daily)
	assert.Empty(t, X)
	assert.Nil(t, inference)
}

func TestBuildFeatureMatrix_UnsortedInput(t *testing.T) {
	bars := []entity.PriceBar{
		{Date: "2026-01-03", Close: 102, Volume: 1000, High: 103, Low: 101},
		{Date: "2026-01-01", Close: 100, Volume: 1000, High: 101, Low: 99},
		{Date: "2026-01-02", Close: 101, Volume: 1000, High: 102, Low: 100},
	}
	daily := []entity.DailySentiment{
		{Date: "2026-01-02", Score: 0.5},
		{Date: "2026-01-03", Score: 0.5},
	}

	X, y, _ := BuildFeatureMatrix(bars, daily)
	require.Len(t, X, 1)
	assert.Equal(t, []int{1}, y)
}

type fakePriceRepo struct {
	bars []entity.PriceBar
}

func (r *fakePriceRepo) CreateIgnoreConflict(_ context.Context, bars []entity.PriceBar) error {
	r.bars = append(r.bars, bars...)
	return nil
}

func (r *fakePriceRepo) FindByTickerAndRange(_ context.Context, _, startDate, endDate string) ([]entity.PriceBar, error) {
	var out []entity.PriceBar
	for _, bar := range r.bars {
		if utils.InDateRange(bar.Date, startDate, endDate) {
			out = append(out, bar)
		}
	}
	return out, nil
}

type fakeSignalRepo struct {
	signals []*entity.PredictionSignal
}

func (r *fakeSignalRepo) Create(_ context.Context, signal *entity.PredictionSignal) error {
	signal.ID = int64(len(r.signals) + 1)
	r.signals = append(r.signals, signal)
	return nil
}

func (r *fakeSignalRepo) FindLatest(_ context.Context, _ string) (*entity.PredictionSignal, error) {
	if len(r.signals) == 0 {
		return nil, nil
	}
	return r.signals[len(r.signals)-1], nil
}

// fakeResultsService serves canned daily sentiment; the other job operations
// are unused by the prediction flow.
type fakeResultsService struct {
	daily []entity.DailySentiment
}

func (s *fakeResultsService) Trigger(context.Context, dto.TriggerSentimentJobRequest) (*entity.SentimentJob, bool, error) {
	return nil, false, nil
}

func (s *fakeResultsService) Process(context.Context, dto.SentimentJobTask) error { return nil }

func (s *fakeResultsService) GetStatus(context.Context, string) (*entity.SentimentJob, error) {
	return nil, nil
}

func (s *fakeResultsService) GetResults(context.Context, string, string, string) ([]entity.DailySentiment, bool, error) {
	return s.daily, len(s.daily) > 0, nil
}

func (s *fakeResultsService) CacheArticles(context.Context, []entity.Article) error { return nil }

// predictionFixtureData builds an alternating up/down price series with
// sentiment on every day.
func predictionFixtureData(days int) ([]entity.PriceBar, []entity.DailySentiment) {
	bars := make([]entity.PriceBar, 0, days)
	daily := make([]entity.DailySentiment, 0, days)
	price := 100.0
	for i := 0; i < days; i++ {
		date := fmt.Sprintf("2026-01-%02d", i+1)
		if i%2 == 0 {
			price += 2
		} else {
			price -= 1
		}
		bars = append(bars, entity.PriceBar{
			Date: date, Open: price - 1, High: price + 1, Low: price - 2,
			Close: price, Volume: int64(1000 + i*10),
		})
		score := 0.5
		if i%2 != 0 {
			score = -0.5
		}
		daily = append(daily, entity.DailySentiment{
			Date: date, PositiveTotal: 2, NegativeTotal: 1, Score: score,
		})
	}
	return bars, daily
}

func newPredictionFixture(minSamples int, bars []entity.PriceBar, daily []entity.DailySentiment) (PredictionService, *fakeSignalRepo) {
	cfg := &config.Config{}
	cfg.Prediction.MinSamples = minSamples
	cfg.Prediction.Folds = 2
	signalRepo := &fakeSignalRepo{}
	svc := NewPredictionService(cfg, logger.NewNop(),
		&fakePriceRepo{bars: bars}, signalRepo,
		&fakeResultsService{daily: daily}, nil)
	return svc, signalRepo
}

func TestPredict_StoresSignalWithArtifact(t *testing.T) {
	bars, daily := predictionFixtureData(14)
	svc, signalRepo := newPredictionFixture(5, bars, daily)

	resp, err := svc.Predict(context.Background(), "aapl", dto.PredictionRequest{
		StartDate: "2026-01-01", EndDate: "2026-01-14",
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", resp.Ticker)
	assert.Contains(t, []string{entity.DirectionUp, entity.DirectionDown}, resp.Direction)
	assert.GreaterOrEqual(t, resp.Probability, 0.0)
	assert.LessOrEqual(t, resp.Probability, 1.0)
	if resp.Direction == entity.DirectionUp {
		assert.GreaterOrEqual(t, resp.Probability, 0.5)
	} else {
		assert.Less(t, resp.Probability, 0.5)
	}
	// 12 labeled rows: 14 bars minus the first and the unlabeled last day
	assert.Equal(t, 12, resp.SampleCount)

	require.Len(t, signalRepo.signals, 1)
	stored := signalRepo.signals[0]

	var data signalData
	require.NoError(t, json.Unmarshal(stored.Data, &data))
	require.NotNil(t, data.Artifact)
	assert.Len(t, data.Artifact.Weights, 6)
	assert.Len(t, data.Artifact.Means, 6)
	require.NotNil(t, data.CV)
	assert.Equal(t, stored.CVAccuracy, data.CV.Mean)
}

func TestPredict_InsufficientData(t *testing.T) {
	bars, daily := predictionFixtureData(4)
	svc, signalRepo := newPredictionFixture(30, bars, daily)

	_, err := svc.Predict(context.Background(), "AAPL", dto.PredictionRequest{
		StartDate: "2026-01-01", EndDate: "2026-01-04",
	})
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Empty(t, signalRepo.signals)
}

func TestPredict_Validation(t *testing.T) {
	svc, _ := newPredictionFixture(5, nil, nil)
	ctx := context.Background()

	_, err := svc.Predict(ctx, "", dto.PredictionRequest{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Predict(ctx, "AAPL", dto.PredictionRequest{StartDate: "bad", EndDate: "2026-01-02"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGetLatest(t *testing.T) {
	bars, daily := predictionFixtureData(14)
	svc, _ := newPredictionFixture(5, bars, daily)
	ctx := context.Background()

	resp, err := svc.GetLatest(ctx, "AAPL")
	require.NoError(t, err)
	assert.Nil(t, resp)

	created, err := svc.Predict(ctx, "AAPL", dto.PredictionRequest{
		StartDate: "2026-01-01", EndDate: "2026-01-14",
	})
	require.NoError(t, err)

	latest, err := svc.GetLatest(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, created.SignalID, latest.SignalID)
	assert.Equal(t, created.Direction, latest.Direction)
	assert.Equal(t, created.CVStd, latest.CVStd)
}
