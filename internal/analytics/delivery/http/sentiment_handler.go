package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/analytics/service"
	"golang-stock-sentiment/pkg/logger"
)

// SentimentHandler handles HTTP requests for sentiment jobs and results.
type SentimentHandler struct {
	jobService service.SentimentJobService
	logger     *logger.Logger
}

// NewSentimentHandler creates a new SentimentHandler.
func NewSentimentHandler(jobService service.SentimentJobService, logger *logger.Logger) *SentimentHandler {
	return &SentimentHandler{jobService: jobService, logger: logger}
}

// RegisterRoutes registers the sentiment routes to the Echo group.
func (h *SentimentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/jobs", h.TriggerJob)
	g.GET("/jobs/:id", h.GetJobStatus)
	g.GET("/results/:ticker", h.GetResults)
}

// TriggerJob godoc
// @Summary Trigger a sentiment analysis job
// @Description Trigger an asynchronous sentiment analysis job for a ticker and date range. Returns the existing job when one already covers the range.
// @Tags sentiment
// @Accept  json
// @Produce  json
// @Param   job  body    dto.TriggerSentimentJobRequest   true    "Job to trigger"
// @Success 202 {object} dto.SentimentJobResponse
// @Success 200 {object} dto.SentimentJobResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sentiment/jobs [post]
func (h *SentimentHandler) TriggerJob(c echo.Context) error {
	var req dto.TriggerSentimentJobRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	job, cached, err := h.jobService.Trigger(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to trigger sentiment job", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to trigger sentiment job"})
	}

	status := http.StatusAccepted
	if cached {
		status = http.StatusOK
	}
	return c.JSON(status, dto.NewSentimentJobResponse(job, cached))
}

// GetJobStatus godoc
// @Summary Get sentiment job status
// @Description Poll a sentiment job by its ID
// @Tags sentiment
// @Produce  json
// @Param   id  path    string true    "Job ID"
// @Success 200 {object} dto.SentimentJobResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sentiment/jobs/{id} [get]
func (h *SentimentHandler) GetJobStatus(c echo.Context) error {
	job, err := h.jobService.GetStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to get sentiment job", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get sentiment job"})
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Job not found"})
	}
	return c.JSON(http.StatusOK, dto.NewSentimentJobResponse(job, false))
}

// GetResults godoc
// @Summary Get daily sentiment results
// @Description Get the aggregated daily sentiment for a ticker, optionally restricted to a date range
// @Tags sentiment
// @Produce  json
// @Param   ticker      path    string true     "Ticker symbol"
// @Param   start_date  query   string false    "Range start (YYYY-MM-DD)"
// @Param   end_date    query   string false    "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.SentimentResultsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sentiment/results/{ticker} [get]
func (h *SentimentHandler) GetResults(c echo.Context) error {
	ticker := c.Param("ticker")
	daily, cached, err := h.jobService.GetResults(
		c.Request().Context(),
		ticker,
		c.QueryParam("start_date"),
		c.QueryParam("end_date"),
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to get sentiment results",
			logger.StringField("ticker", ticker),
			logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get sentiment results"})
	}

	return c.JSON(http.StatusOK, dto.SentimentResultsResponse{
		Ticker:         ticker,
		DailySentiment: daily,
		Cached:         cached,
	})
}
