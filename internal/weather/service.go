package weather

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/skylens/weather-assistant/internal/config"
	"github.com/skylens/weather-assistant/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Fetcher is the provider surface the service needs. *Client satisfies it;
// tests substitute fakes.
type Fetcher interface {
	CurrentByCoords(ctx context.Context, lat, lon float64) (*WeatherRecord, error)
	CurrentByCity(ctx context.Context, city string) (*WeatherRecord, error)
	Forecast(ctx context.Context, lat, lon float64) (*Forecast, error)
	AirQuality(ctx context.Context, lat, lon float64) (*AirQuality, error)
	GeocodeCity(ctx context.Context, city string) ([]GeocodeResult, error)
}

// Service composes the provider client with a TTL response cache and attaches
// air quality to current-weather records best-effort.
type Service struct {
	fetcher Fetcher
	cache   *gocache.Cache
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewService(cfg config.WeatherConfig, fetcher Fetcher, logger *zap.Logger, tele *telemetry.Telemetry) *Service {
	ttl := time.Duration(cfg.CacheTTL) * time.Second

	return &Service{
		fetcher: fetcher,
		cache:   gocache.New(ttl, 2*ttl),
		logger:  logger,
		tele:    tele,
	}
}

// Current returns the canonical weather record for a point, with air quality
// attached when available. Cached per coordinate pair.
func (s *Service) Current(ctx context.Context, lat, lon float64) (*WeatherRecord, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "weather.Current")
	defer span.End()

	cacheKey := fmt.Sprintf("current:%.6f,%.6f", lat, lon)
	if cached, ok := s.cache.Get(cacheKey); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached.(*WeatherRecord), nil
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	record, err := s.fetcher.CurrentByCoords(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	s.attachAirQuality(ctx, record)
	s.cache.SetDefault(cacheKey, record)

	return record, nil
}

// CurrentByCity is Current keyed on a free-text city name. ErrNotFound
// propagates so callers can distinguish an unknown city from an outage.
func (s *Service) CurrentByCity(ctx context.Context, city string) (*WeatherRecord, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "weather.CurrentByCity")
	defer span.End()

	cacheKey := "current:city:" + city
	if cached, ok := s.cache.Get(cacheKey); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached.(*WeatherRecord), nil
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	record, err := s.fetcher.CurrentByCity(ctx, city)
	if err != nil {
		return nil, err
	}

	s.attachAirQuality(ctx, record)
	s.cache.SetDefault(cacheKey, record)

	return record, nil
}

// Forecast returns the normalized hourly and daily forecast for a point.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "weather.Forecast")
	defer span.End()

	cacheKey := fmt.Sprintf("forecast:%.6f,%.6f", lat, lon)
	if cached, ok := s.cache.Get(cacheKey); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached.(*Forecast), nil
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	forecast, err := s.fetcher.Forecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(cacheKey, forecast)

	return forecast, nil
}

// AirQuality returns the normalized air pollution reading for a point.
func (s *Service) AirQuality(ctx context.Context, lat, lon float64) (*AirQuality, error) {
	return s.fetcher.AirQuality(ctx, lat, lon)
}

// GeocodeCity resolves a city name to candidate coordinates.
func (s *Service) GeocodeCity(ctx context.Context, city string) ([]GeocodeResult, error) {
	return s.fetcher.GeocodeCity(ctx, city)
}

// attachAirQuality enriches the record in place. Air quality is optional:
// a failed lookup is logged and the record keeps a nil AirQuality.
func (s *Service) attachAirQuality(ctx context.Context, record *WeatherRecord) {
	aq, err := s.fetcher.AirQuality(ctx, record.Location.Coordinates.Lat, record.Location.Coordinates.Lon)
	if err != nil {
		s.logger.Warn("Air quality data not available",
			zap.Float64("lat", record.Location.Coordinates.Lat),
			zap.Float64("lon", record.Location.Coordinates.Lon),
			zap.Error(err))
		return
	}
	record.AirQuality = aq
}

// ClearCache drops all cached responses.
func (s *Service) ClearCache() {
	s.cache.Flush()
}

// CacheStats reports cache occupancy for the metrics endpoint.
func (s *Service) CacheStats() map[string]interface{} {
	return map[string]interface{}{
		"cache_size": s.cache.ItemCount(),
	}
}
