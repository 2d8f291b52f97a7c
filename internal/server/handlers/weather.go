package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skylens/weather-assistant/internal/server/utils"
	"github.com/skylens/weather-assistant/internal/weather"
	"go.uber.org/zap"
)

// WeatherMetricsRecorder counts upstream weather lookups for the metrics
// endpoint.
type WeatherMetricsRecorder interface {
	RecordWeatherCall(endpoint string, success bool)
}

type WeatherHandler struct {
	service *weather.Service
	logger  *zap.Logger
	metrics WeatherMetricsRecorder
}

func NewWeatherHandler(service *weather.Service, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: service,
		logger:  logger,
	}
}

// SetMetricsRecorder wires the metrics handler in after construction.
func (h *WeatherHandler) SetMetricsRecorder(metrics WeatherMetricsRecorder) {
	h.metrics = metrics
}

// GetCurrent serves current conditions for either a coordinate pair or a
// city name. An unknown city maps to 404, all other upstream failures to 502.
func (h *WeatherHandler) GetCurrent(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req CurrentWeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if req.City == "" && (req.Lat == nil || req.Lon == nil) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Either city or both lat and lon must be provided",
			Code:  "INVALID_PARAMS",
		})
		return
	}

	if validationErrs := utils.ValidateStruct(&req); validationErrs != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: validationErrs[0].Message,
		})
		return
	}

	var (
		record *weather.WeatherRecord
		err    error
	)
	if req.City != "" {
		record, err = h.service.CurrentByCity(ctx, req.City)
	} else {
		record, err = h.service.Current(ctx, *req.Lat, *req.Lon)
	}

	if h.metrics != nil {
		h.metrics.RecordWeatherCall("current", err == nil)
	}

	if err != nil {
		if errors.Is(err, weather.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "City not found. Please check the spelling and try again.",
				Code:  "CITY_NOT_FOUND",
			})
			return
		}

		reqLogger.Error("Failed to fetch current weather", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch weather data. Please try again.",
			Code:    "UPSTREAM_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetForecast serves the normalized hourly and daily forecast for a point.
func (h *WeatherHandler) GetForecast(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req CoordinatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if validationErrs := utils.ValidateStruct(&req); validationErrs != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: validationErrs[0].Message,
		})
		return
	}

	forecast, err := h.service.Forecast(ctx, req.Lat, req.Lon)

	if h.metrics != nil {
		h.metrics.RecordWeatherCall("forecast", err == nil)
	}

	if err != nil {
		reqLogger.Error("Failed to fetch forecast", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch forecast data. Please try again.",
			Code:    "UPSTREAM_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// GetAirQuality serves the normalized air pollution reading for a point.
func (h *WeatherHandler) GetAirQuality(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req CoordinatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	aq, err := h.service.AirQuality(ctx, req.Lat, req.Lon)

	if h.metrics != nil {
		h.metrics.RecordWeatherCall("air_quality", err == nil)
	}

	if err != nil {
		reqLogger.Warn("Air quality data not available", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Air quality data not available.",
			Code:    "UPSTREAM_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, aq)
}

// Geocode resolves a city search query to candidate coordinates.
func (h *WeatherHandler) Geocode(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req GeocodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	results, err := h.service.GeocodeCity(ctx, req.Query)
	if err != nil {
		reqLogger.Error("Geocoding failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Geocoding failed. Please try again.",
			Code:    "UPSTREAM_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, results)
}
