package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skylens/weather-assistant/internal/advisor"
	"github.com/skylens/weather-assistant/internal/server/utils"
	"github.com/skylens/weather-assistant/internal/weather"
	"go.uber.org/zap"
)

// AdviceMetricsRecorder counts advice outcomes by source for the metrics
// endpoint.
type AdviceMetricsRecorder interface {
	RecordAdviceResult(category, source string)
}

type AdviceHandler struct {
	service *weather.Service
	advisor *advisor.Advisor
	logger  *zap.Logger
	metrics AdviceMetricsRecorder
}

func NewAdviceHandler(service *weather.Service, adv *advisor.Advisor, logger *zap.Logger) *AdviceHandler {
	return &AdviceHandler{
		service: service,
		advisor: adv,
		logger:  logger,
	}
}

// SetMetricsRecorder wires the metrics handler in after construction.
func (h *AdviceHandler) SetMetricsRecorder(metrics AdviceMetricsRecorder) {
	h.metrics = metrics
}

// GetAdvice serves one advice category for a point. The advisor itself never
// fails; only fetching the weather record can error out.
func (h *AdviceHandler) GetAdvice(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	category := c.Param("category")
	produce, ok := h.adviceFunc(category)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Unknown advice category",
			Code:  "UNKNOWN_CATEGORY",
		})
		return
	}

	var req CoordinatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	record, err := h.service.Current(ctx, req.Lat, req.Lon)
	if err != nil {
		reqLogger.Error("Failed to fetch weather for advice",
			zap.String("category", category),
			zap.Error(err))
		h.writeWeatherError(c, err)
		return
	}

	result := produce(ctx, record)

	if h.metrics != nil {
		h.metrics.RecordAdviceResult(category, result.Source)
	}

	c.JSON(http.StatusOK, result)
}

// Chat serves a free-form chat turn grounded in the current weather.
func (h *AdviceHandler) Chat(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	record, err := h.service.Current(ctx, req.Lat, req.Lon)
	if err != nil {
		reqLogger.Error("Failed to fetch weather for chat", zap.Error(err))
		h.writeWeatherError(c, err)
		return
	}

	reply := h.advisor.HandleChatMessage(ctx, req.Message, record)

	if h.metrics != nil {
		h.metrics.RecordAdviceResult("chat", reply.Source)
	}

	c.JSON(http.StatusOK, reply)
}

func (h *AdviceHandler) adviceFunc(category string) (func(context.Context, *weather.WeatherRecord) advisor.AdviceResult, bool) {
	switch category {
	case "clothing":
		return h.advisor.ClothingAdvice, true
	case "travel":
		return h.advisor.TravelAdvice, true
	case "health":
		return h.advisor.HealthAdvice, true
	case "activity":
		return h.advisor.ActivitySuggestions, true
	default:
		return nil, false
	}
}

func (h *AdviceHandler) writeWeatherError(c *gin.Context, err error) {
	if errors.Is(err, weather.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "City not found. Please check the spelling and try again.",
			Code:  "CITY_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusBadGateway, ErrorResponse{
		Error:   "Failed to fetch weather data. Please try again.",
		Code:    "UPSTREAM_ERROR",
		Details: err.Error(),
	})
}
