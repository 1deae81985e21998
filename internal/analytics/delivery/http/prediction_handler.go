package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/analytics/service"
	"golang-stock-sentiment/pkg/logger"
)

// PredictionHandler handles HTTP requests for prediction signals.
type PredictionHandler struct {
	predictionService service.PredictionService
	logger            *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictionService service.PredictionService, logger *logger.Logger) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService, logger: logger}
}

// RegisterRoutes registers the prediction routes to the Echo group.
func (h *PredictionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/:ticker", h.Predict)
	g.GET("/:ticker/latest", h.GetLatest)
}

// Predict godoc
// @Summary Build a direction prediction
// @Description Train a model over the joined sentiment and price history and store the resulting signal. An empty range uses the configured lookback window.
// @Tags predictions
// @Accept  json
// @Produce  json
// @Param   ticker   path    string true     "Ticker symbol"
// @Param   request  body    dto.PredictionRequest  false   "Optional date range"
// @Success 201 {object} dto.PredictionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/{ticker} [post]
func (h *PredictionHandler) Predict(c echo.Context) error {
	var req dto.PredictionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	ticker := c.Param("ticker")
	resp, err := h.predictionService.Predict(c.Request().Context(), ticker, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidArgument):
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrInsufficientData):
			return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to build prediction",
			logger.StringField("ticker", ticker),
			logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to build prediction"})
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetLatest godoc
// @Summary Get the latest prediction signal
// @Description Get the most recently stored prediction signal for a ticker
// @Tags predictions
// @Produce  json
// @Param   ticker  path    string true    "Ticker symbol"
// @Success 200 {object} dto.PredictionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/{ticker}/latest [get]
func (h *PredictionHandler) GetLatest(c echo.Context) error {
	ticker := c.Param("ticker")
	resp, err := h.predictionService.GetLatest(c.Request().Context(), ticker)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to get latest prediction",
			logger.StringField("ticker", ticker),
			logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get latest prediction"})
	}
	if resp == nil {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No prediction signal found"})
	}
	return c.JSON(http.StatusOK, resp)
}
