package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skylens/weather-assistant/internal/advisor"
	"github.com/skylens/weather-assistant/internal/config"
	"github.com/skylens/weather-assistant/internal/server/handlers"
	"github.com/skylens/weather-assistant/internal/server/middlewares"
	"github.com/skylens/weather-assistant/internal/weather"
	"github.com/skylens/weather-assistant/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine  *gin.Engine
	server  *http.Server
	service *weather.Service
	advisor *advisor.Advisor
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewServer(logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	cfg := config.GetConfig()

	client := weather.NewClient(cfg.Weather, logger, tele)
	service := weather.NewService(cfg.Weather, client, logger, tele)
	adv := advisor.New(cfg.Advisor, logger, tele)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	metricsMw := middlewares.NewMetricsMiddleware()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger))
	engine.Use(middlewares.TelemetryMiddleware(tele))
	engine.Use(metricsMw.Handler())

	s := &Server{
		engine:  engine,
		service: service,
		advisor: adv,
		logger:  logger,
		tele:    tele,
	}

	s.setupRoutes(metricsMw)

	return s
}

func (s *Server) setupRoutes(metricsMw *middlewares.MetricsMiddleware) {
	weatherHandler := handlers.NewWeatherHandler(s.service, s.logger)
	adviceHandler := handlers.NewAdviceHandler(s.service, s.advisor, s.logger)
	healthHandler := handlers.NewHealthHandler(s.logger)
	metricsHandler := handlers.NewMetricsHandler(s.logger)

	weatherHandler.SetMetricsRecorder(metricsHandler)
	adviceHandler.SetMetricsRecorder(metricsHandler)

	// Business endpoints
	s.engine.GET("/weather/current", weatherHandler.GetCurrent)
	s.engine.GET("/weather/forecast", weatherHandler.GetForecast)
	s.engine.GET("/weather/air-quality", weatherHandler.GetAirQuality)
	s.engine.GET("/geocode", weatherHandler.Geocode)
	s.engine.GET("/advice/:category", adviceHandler.GetAdvice)
	s.engine.POST("/chat", adviceHandler.Chat)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/health/live", healthHandler.Liveness)
	s.engine.GET("/health/ready", healthHandler.Readiness)

	// Monitoring
	s.engine.GET("/metrics", func(c *gin.Context) {
		c.Set("http_metrics", metricsMw.GetHTTPMetrics())
		metricsHandler.ServeMetrics(c)
	})
}

func (s *Server) Start() error {
	cfg := config.GetConfig()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
