package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/skylens/weather-assistant/internal/config"
	"github.com/skylens/weather-assistant/pkg/telemetry"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Client talks to the OpenWeather HTTP API and returns normalized records.
// A circuit breaker shields the provider from hammering during outages; no
// automatic retries are performed.
type Client struct {
	baseURL       string
	geocodeURL    string
	airQualityURL string
	apiKey        string
	units         string
	httpClient    *http.Client
	breaker       *gobreaker.CircuitBreaker
	logger        *zap.Logger
	tele          *telemetry.Telemetry
}

func NewClient(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// An unknown city is a valid answer from the provider, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})

	return &Client{
		baseURL:       cfg.BaseURL,
		geocodeURL:    cfg.GeocodeURL,
		airQualityURL: cfg.AirQualityURL,
		apiKey:        cfg.APIKey,
		units:         cfg.Units,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		breaker: breaker,
		logger:  logger,
		tele:    tele,
	}
}

// CurrentByCoords fetches and normalizes current conditions for a point.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*WeatherRecord, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.CurrentByCoords")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	)

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))

	body, err := c.get(ctx, c.baseURL+"/weather", q)
	if err != nil {
		return nil, err
	}

	return NormalizeCurrent(body)
}

// CurrentByCity fetches current conditions for a free-text city name.
// A provider 404 surfaces as ErrNotFound so callers can message the user
// distinctly from generic upstream failures.
func (c *Client) CurrentByCity(ctx context.Context, city string) (*WeatherRecord, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.CurrentByCity")
	defer span.End()

	span.SetAttributes(attribute.String("city", city))

	q := url.Values{}
	q.Set("q", city)

	body, err := c.get(ctx, c.baseURL+"/weather", q)
	if err != nil {
		return nil, err
	}

	return NormalizeCurrent(body)
}

// Forecast fetches and normalizes the 5-day/3-hour forecast for a point.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.Forecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	)

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))

	body, err := c.get(ctx, c.baseURL+"/forecast", q)
	if err != nil {
		return nil, err
	}

	return NormalizeForecast(body)
}

// AirQuality fetches and normalizes the air pollution reading for a point.
func (c *Client) AirQuality(ctx context.Context, lat, lon float64) (*AirQuality, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.AirQuality")
	defer span.End()

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))

	body, err := c.get(ctx, c.airQualityURL, q)
	if err != nil {
		return nil, err
	}

	return NormalizeAirQuality(body)
}

// GeocodeCity resolves a city name to candidate coordinates.
func (c *Client) GeocodeCity(ctx context.Context, city string) ([]GeocodeResult, error) {
	tracer := c.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweather.GeocodeCity")
	defer span.End()

	span.SetAttributes(attribute.String("city", city))

	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", "5")

	body, err := c.get(ctx, c.geocodeURL+"/direct", q)
	if err != nil {
		return nil, err
	}

	var p geocodePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, malformedf("invalid geocoding JSON: %v", err)
	}

	results := make([]GeocodeResult, 0, len(p))
	for _, item := range p {
		display := item.Name
		if item.State != "" {
			display += ", " + item.State
		}
		display += ", " + item.Country

		results = append(results, GeocodeResult{
			Name:        item.Name,
			Country:     item.Country,
			State:       item.State,
			Lat:         item.Lat,
			Lon:         item.Lon,
			DisplayName: display,
		})
	}

	return results, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	q.Set("appid", c.apiKey)
	if c.units != "" {
		q.Set("units", c.units)
	}
	u.RawQuery = q.Encode()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("openweather request failed with status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		c.logger.Warn("OpenWeather request failed",
			zap.String("endpoint", u.Path),
			zap.Error(err))
		return nil, err
	}

	return result.([]byte), nil
}
