package weather

import (
	"encoding/json"
	"time"
)

// Coordinates is a WGS84 point. Lat is in [-90,90], Lon in [-180,180].
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location describes where an observation was taken. Immutable once built
// from a provider payload.
type Location struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
	// TimezoneOffset is the shift from UTC in seconds, as reported upstream.
	TimezoneOffset int       `json:"timezone"`
	Sunrise        time.Time `json:"sunrise"`
	Sunset         time.Time `json:"sunset"`
}

// Wind speeds are km/h, rounded. Direction is compass degrees 0-359.
type Wind struct {
	Speed     int  `json:"speed"`
	Direction int  `json:"direction"`
	Gust      *int `json:"gust,omitempty"`
}

// Precipitation holds accumulation over the last hour in mm. Absent upstream
// keys normalize to 0.
type Precipitation struct {
	Rain1h float64 `json:"rain_1h"`
	Snow1h float64 `json:"snow_1h"`
}

// CurrentConditions is the normalized current-weather observation.
// Temperatures are integral degrees; Visibility is km and nil when the
// provider omits it.
type CurrentConditions struct {
	Temperature   int           `json:"temperature"`
	FeelsLike     int           `json:"feels_like"`
	TempMin       int           `json:"temp_min"`
	TempMax       int           `json:"temp_max"`
	Pressure      int           `json:"pressure"`
	Humidity      int           `json:"humidity"`
	Visibility    *int          `json:"visibility,omitempty"`
	Condition     string        `json:"condition"`
	Description   string        `json:"description"`
	Icon          string        `json:"icon"`
	Wind          Wind          `json:"wind"`
	Clouds        int           `json:"clouds"`
	Precipitation Precipitation `json:"precipitation"`
}

// WeatherRecord is the canonical unit handed to the advisor and the
// presentation layer. Raw keeps the untouched provider payload for
// traceability.
type WeatherRecord struct {
	Location   Location          `json:"location"`
	Current    CurrentConditions `json:"current"`
	Timestamp  time.Time         `json:"timestamp"`
	AirQuality *AirQuality       `json:"air_quality,omitempty"`
	Raw        json.RawMessage   `json:"-"`
}

// HourlyPrecipitation is the chance (0-100) and expected amount in mm for a
// single forecast slot.
type HourlyPrecipitation struct {
	Probability int     `json:"probability"`
	Amount      float64 `json:"amount"`
}

// HourlyEntry is one forecast slot, typically on a 3-hour cadence.
type HourlyEntry struct {
	Time          time.Time           `json:"time"`
	Temperature   int                 `json:"temperature"`
	Condition     string              `json:"condition"`
	Description   string              `json:"description"`
	Icon          string              `json:"icon"`
	Precipitation HourlyPrecipitation `json:"precipitation"`
	Wind          Wind                `json:"wind"`
}

// ForecastDay aggregates all hourly entries of one calendar day: minimum of
// the per-entry minima, maximum of the maxima, maximum precipitation
// probability. Condition, description, icon and humidity come from the first
// entry of the day.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	TempMin       int       `json:"temp_min"`
	TempMax       int       `json:"temp_max"`
	Condition     string    `json:"condition"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Precipitation int       `json:"precipitation"`
	Humidity      int       `json:"humidity"`
}

// Forecast bundles the hourly sequence (first 24 slots, provider order) with
// the daily aggregation (first 7 distinct calendar days).
type Forecast struct {
	Hourly []HourlyEntry `json:"hourly"`
	Daily  []ForecastDay `json:"daily"`
}

// AirQualityComponents are pollutant concentrations in µg/m³.
type AirQualityComponents struct {
	CO   float64 `json:"co"`
	NO   float64 `json:"no"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	SO2  float64 `json:"so2"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
	NH3  float64 `json:"nh3"`
}

// AirQuality is a normalized air quality observation. AQI is the provider
// index 1-5 with its fixed label.
type AirQuality struct {
	AQI        int                  `json:"aqi"`
	Label      string               `json:"label"`
	Components AirQualityComponents `json:"components"`
	Timestamp  time.Time            `json:"timestamp"`
}

// GeocodeResult is one candidate location for a free-text city query.
type GeocodeResult struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	State       string  `json:"state,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}
