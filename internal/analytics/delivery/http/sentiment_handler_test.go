package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/analytics/service"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
)

// stubJobService returns canned values for handler tests.
type stubJobService struct {
	job     *entity.SentimentJob
	cached  bool
	daily   []entity.DailySentiment
	err     error
	lastReq dto.TriggerSentimentJobRequest
}

func (s *stubJobService) Trigger(_ context.Context, req dto.TriggerSentimentJobRequest) (*entity.SentimentJob, bool, error) {
	s.lastReq = req
	return s.job, s.cached, s.err
}

func (s *stubJobService) Process(context.Context, dto.SentimentJobTask) error { return nil }

func (s *stubJobService) GetStatus(context.Context, string) (*entity.SentimentJob, error) {
	return s.job, s.err
}

func (s *stubJobService) GetResults(context.Context, string, string, string) ([]entity.DailySentiment, bool, error) {
	return s.daily, s.cached, s.err
}

func (s *stubJobService) CacheArticles(context.Context, []entity.Article) error { return nil }

func testJob() *entity.SentimentJob {
	return &entity.SentimentJob{
		JobID:     "AAPL_2026-01-01_2026-01-31",
		Ticker:    "AAPL",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
		Status:    entity.JobStatusPending,
		StartedAt: time.Now(),
	}
}

func doRequest(handler *SentimentHandler, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	handler.RegisterRoutes(e.Group("/sentiment"))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTriggerJob_Accepted(t *testing.T) {
	stub := &stubJobService{job: testJob()}
	handler := NewSentimentHandler(stub, logger.NewNop())

	rec := doRequest(handler, http.MethodPost, "/sentiment/jobs",
		`{"ticker":"AAPL","start_date":"2026-01-01","end_date":"2026-01-31"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "AAPL", stub.lastReq.Ticker)
	assert.Contains(t, rec.Body.String(), `"job_id":"AAPL_2026-01-01_2026-01-31"`)
	assert.Contains(t, rec.Body.String(), `"cached":false`)
}

func TestTriggerJob_CachedReturnsOK(t *testing.T) {
	job := testJob()
	job.Status = entity.JobStatusCompleted
	stub := &stubJobService{job: job, cached: true}
	handler := NewSentimentHandler(stub, logger.NewNop())

	rec := doRequest(handler, http.MethodPost, "/sentiment/jobs",
		`{"ticker":"AAPL","start_date":"2026-01-01","end_date":"2026-01-31"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cached":true`)
}

func TestTriggerJob_InvalidArgument(t *testing.T) {
	stub := &stubJobService{err: service.ErrInvalidArgument}
	handler := NewSentimentHandler(stub, logger.NewNop())

	rec := doRequest(handler, http.MethodPost, "/sentiment/jobs", `{"ticker":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobStatus_NotFound(t *testing.T) {
	stub := &stubJobService{}
	handler := NewSentimentHandler(stub, logger.NewNop())

	rec := doRequest(handler, http.MethodGet, "/sentiment/jobs/MISSING_2026-01-01_2026-01-02", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobStatus_Found(t *testing.T) {
	stub := &stubJobService{job: testJob()}
	handler := NewSentimentHandler(stub, logger.NewNop())

	rec := doRequest(handler, http.MethodGet, "/sentiment/jobs/AAPL_2026-01-01_2026-01-31", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
}

func TestGetResults(t *testing.T) {
	stub := &stubJobService{
		daily: []entity.DailySentiment{
			{Date: "2026-01-05", PositiveTotal: 4, NegativeTotal: 2, Score: 1.0 / 3.0, Classification: entity.SentimentPositive, ArticleCount: 2},
		},
		cached: true,
	}
	handler := NewSentimentHandler(stub, logger.NewNop())

	rec := doRequest(handler, http.MethodGet, "/sentiment/results/AAPL?start_date=2026-01-01&end_date=2026-01-31", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"ticker":"AAPL"`)
	assert.Contains(t, body, `"date":"2026-01-05"`)
	assert.Contains(t, body, `"classification":"POS"`)
	assert.Contains(t, body, `"cached":true`)
}
