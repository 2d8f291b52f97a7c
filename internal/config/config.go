package config

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Advisor     AdvisorConfig   `mapstructure:"advisor"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// WeatherConfig configures the OpenWeather client and response cache.
type WeatherConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	GeocodeURL    string `mapstructure:"geocode_url"`
	AirQualityURL string `mapstructure:"air_quality_url"`
	APIKey        string `mapstructure:"api_key"`
	Units         string `mapstructure:"units"`
	Timeout       int    `mapstructure:"timeout"`
	CacheTTL      int    `mapstructure:"cache_ttl"`
}

// AdvisorConfig configures the generative advice service. Advice falls back
// to the rule tables whenever Enabled is false or the key is missing or a
// placeholder, so an empty APIKey is a valid configuration.
type AdvisorConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	BaseURL         string  `mapstructure:"base_url"`
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	Temperature     float64 `mapstructure:"temperature"`
	RequestsPerHour int     `mapstructure:"requests_per_hour"`
	Timeout         int     `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			BaseURL:       "https://api.openweathermap.org/data/2.5",
			GeocodeURL:    "https://api.openweathermap.org/geo/1.0",
			AirQualityURL: "https://api.openweathermap.org/data/2.5/air_pollution",
			APIKey:        "",
			Units:         "metric",
			Timeout:       10,
			CacheTTL:      600,
		},
		Advisor: AdvisorConfig{
			Enabled:         true,
			BaseURL:         "https://api.openai.com/v1",
			APIKey:          "",
			Model:           "gpt-3.5-turbo",
			MaxTokens:       300,
			Temperature:     0.7,
			RequestsPerHour: 100,
			Timeout:         15,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}

// Validate reports configuration problems that would make the weather client
// unusable. Placeholder keys copied from sample configs count as missing.
func (c *Config) Validate() error {
	if c.Weather.APIKey == "" || strings.HasPrefix(c.Weather.APIKey, "YOUR_") {
		return fmt.Errorf("weather.api_key is not configured")
	}
	if c.Weather.Units != "metric" && c.Weather.Units != "imperial" && c.Weather.Units != "standard" {
		return fmt.Errorf("weather.units must be metric, imperial or standard, got %q", c.Weather.Units)
	}
	if c.Advisor.RequestsPerHour < 0 {
		return fmt.Errorf("advisor.requests_per_hour must not be negative")
	}
	return nil
}
