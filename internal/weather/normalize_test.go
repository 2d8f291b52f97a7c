package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

const currentFixture = `{
	"coord": {"lat": 52.52, "lon": 13.41},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
	"main": {"temp": 18.6, "feels_like": 17.9, "temp_min": 16.4, "temp_max": 20.5, "pressure": 1012, "humidity": 64},
	"visibility": 8000,
	"wind": {"speed": 5.5, "deg": 210, "gust": 9.2},
	"clouds": {"all": 75},
	"rain": {"1h": 0.4},
	"dt": 1709287200,
	"sys": {"country": "DE", "sunrise": 1709269200, "sunset": 1709308800},
	"timezone": 3600,
	"name": "Berlin"
}`

func TestNormalizeCurrent(t *testing.T) {
	record, err := NormalizeCurrent([]byte(currentFixture))
	if err != nil {
		t.Fatalf("NormalizeCurrent failed: %v", err)
	}

	if record.Location.Name != "Berlin" || record.Location.Country != "DE" {
		t.Errorf("Unexpected location: %+v", record.Location)
	}

	if record.Location.Coordinates.Lat != 52.52 || record.Location.Coordinates.Lon != 13.41 {
		t.Errorf("Unexpected coordinates: %+v", record.Location.Coordinates)
	}

	if record.Current.Temperature != 19 {
		t.Errorf("Expected temperature 19, got %d", record.Current.Temperature)
	}
	if record.Current.FeelsLike != 18 {
		t.Errorf("Expected feels-like 18, got %d", record.Current.FeelsLike)
	}
	if record.Current.TempMin != 16 || record.Current.TempMax != 21 {
		t.Errorf("Expected min/max 16/21, got %d/%d", record.Current.TempMin, record.Current.TempMax)
	}

	// 5.5 m/s * 3.6 = 19.8 km/h, rounds to 20
	if record.Current.Wind.Speed != 20 {
		t.Errorf("Expected wind speed 20, got %d", record.Current.Wind.Speed)
	}
	if record.Current.Wind.Direction != 210 {
		t.Errorf("Expected wind direction 210, got %d", record.Current.Wind.Direction)
	}
	if record.Current.Wind.Gust == nil || *record.Current.Wind.Gust != 33 {
		t.Errorf("Expected gust 33, got %v", record.Current.Wind.Gust)
	}

	if record.Current.Visibility == nil || *record.Current.Visibility != 8 {
		t.Errorf("Expected visibility 8 km, got %v", record.Current.Visibility)
	}

	if record.Current.Precipitation.Rain1h != 0.4 {
		t.Errorf("Expected rain 0.4, got %f", record.Current.Precipitation.Rain1h)
	}
	if record.Current.Precipitation.Snow1h != 0 {
		t.Errorf("Expected snow 0, got %f", record.Current.Precipitation.Snow1h)
	}

	if record.Timestamp != time.Unix(1709287200, 0).UTC() {
		t.Errorf("Unexpected timestamp %v", record.Timestamp)
	}

	if len(record.Raw) == 0 {
		t.Error("Expected raw payload to be retained")
	}
}

func TestNormalizeCurrentDefaults(t *testing.T) {
	payload := `{
		"coord": {"lat": 0, "lon": 0},
		"weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}],
		"main": {"temp": 21.2, "feels_like": 21.0, "temp_min": 20.1, "temp_max": 22.3, "pressure": 1015, "humidity": 40},
		"clouds": {"all": 0},
		"dt": 1709287200,
		"sys": {"country": "EC", "sunrise": 1, "sunset": 2},
		"timezone": 0,
		"name": "Quito"
	}`

	record, err := NormalizeCurrent([]byte(payload))
	if err != nil {
		t.Fatalf("NormalizeCurrent failed: %v", err)
	}

	if record.Current.Wind.Speed != 0 || record.Current.Wind.Gust != nil {
		t.Errorf("Expected absent wind to default to zero, got %+v", record.Current.Wind)
	}
	if record.Current.Visibility != nil {
		t.Errorf("Expected nil visibility, got %v", *record.Current.Visibility)
	}
	if record.Current.Precipitation.Rain1h != 0 || record.Current.Precipitation.Snow1h != 0 {
		t.Errorf("Expected zero precipitation, got %+v", record.Current.Precipitation)
	}
}

func TestNormalizeCurrentMissingFields(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{
			name:    "missing coordinates",
			payload: `{"weather": [{"main": "Clear"}], "main": {"temp": 10}, "dt": 1, "name": "x"}`,
		},
		{
			name:    "missing temperature",
			payload: `{"coord": {"lat": 1, "lon": 2}, "weather": [{"main": "Clear"}], "main": {"humidity": 50}, "dt": 1}`,
		},
		{
			name:    "missing weather condition",
			payload: `{"coord": {"lat": 1, "lon": 2}, "main": {"temp": 10}, "dt": 1}`,
		},
		{
			name:    "not JSON",
			payload: `not json at all`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeCurrent([]byte(tc.payload))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func forecastEntry(dt int64, temp, tempMin, tempMax float64, pop float64, humidity int, condition string) map[string]interface{} {
	return map[string]interface{}{
		"dt": dt,
		"main": map[string]interface{}{
			"temp":     temp,
			"temp_min": tempMin,
			"temp_max": tempMax,
			"humidity": humidity,
		},
		"weather": []map[string]interface{}{
			{"main": condition, "description": condition, "icon": "01d"},
		},
		"wind": map[string]interface{}{"speed": 3.0, "deg": 90},
		"pop":  pop,
	}
}

func marshalForecast(t *testing.T, entries []map[string]interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{"list": entries})
	if err != nil {
		t.Fatalf("Failed to marshal forecast fixture: %v", err)
	}
	return raw
}

func TestNormalizeForecastDailyAggregation(t *testing.T) {
	// 2024-03-01 00:00 UTC
	day1 := int64(1709251200)
	day2 := day1 + 24*3600

	entries := []map[string]interface{}{
		forecastEntry(day1, 10.0, 8.4, 12.1, 0.1, 70, "Clouds"),
		forecastEntry(day1+3*3600, 12.0, 7.2, 14.6, 0.6, 65, "Rain"),
		forecastEntry(day1+6*3600, 11.0, 9.0, 13.0, 0.3, 60, "Clouds"),
		forecastEntry(day2, 5.0, 3.9, 6.2, 0.0, 80, "Snow"),
		forecastEntry(day2+3*3600, 4.0, 2.1, 7.8, 0.2, 75, "Snow"),
	}

	forecast, err := NormalizeForecast(marshalForecast(t, entries))
	if err != nil {
		t.Fatalf("NormalizeForecast failed: %v", err)
	}

	if len(forecast.Hourly) != 5 {
		t.Fatalf("Expected 5 hourly entries, got %d", len(forecast.Hourly))
	}
	if len(forecast.Daily) != 2 {
		t.Fatalf("Expected 2 daily entries, got %d", len(forecast.Daily))
	}

	first := forecast.Daily[0]
	// min(8.4, 7.2, 9.0) = 7.2 -> 7; max(12.1, 14.6, 13.0) = 14.6 -> 15
	if first.TempMin != 7 || first.TempMax != 15 {
		t.Errorf("Expected min/max 7/15, got %d/%d", first.TempMin, first.TempMax)
	}
	// max pop of the day: 0.6 -> 60
	if first.Precipitation != 60 {
		t.Errorf("Expected precipitation 60, got %d", first.Precipitation)
	}
	// condition and humidity come from the first entry of the day
	if first.Condition != "Clouds" || first.Humidity != 70 {
		t.Errorf("Expected first-entry condition/humidity, got %s/%d", first.Condition, first.Humidity)
	}

	second := forecast.Daily[1]
	if second.TempMin != 2 || second.TempMax != 8 {
		t.Errorf("Expected min/max 2/8, got %d/%d", second.TempMin, second.TempMax)
	}
	if second.Precipitation != 20 {
		t.Errorf("Expected precipitation 20, got %d", second.Precipitation)
	}

	for _, day := range forecast.Daily {
		if day.TempMin > day.TempMax {
			t.Errorf("tempMin %d exceeds tempMax %d", day.TempMin, day.TempMax)
		}
	}
}

func TestNormalizeForecastCaps(t *testing.T) {
	day1 := int64(1709251200)

	// 10 calendar days, 8 slots each
	var entries []map[string]interface{}
	for d := 0; d < 10; d++ {
		for s := 0; s < 8; s++ {
			dt := day1 + int64(d)*24*3600 + int64(s)*3*3600
			entries = append(entries, forecastEntry(dt, 10, 8, 12, 0.1, 50, "Clear"))
		}
	}

	forecast, err := NormalizeForecast(marshalForecast(t, entries))
	if err != nil {
		t.Fatalf("NormalizeForecast failed: %v", err)
	}

	if len(forecast.Hourly) != 24 {
		t.Errorf("Expected hourly capped at 24, got %d", len(forecast.Hourly))
	}
	if len(forecast.Daily) != 7 {
		t.Errorf("Expected daily capped at 7, got %d", len(forecast.Daily))
	}
}

func TestNormalizeForecastSingleDay(t *testing.T) {
	forecast, err := NormalizeForecast(marshalForecast(t, []map[string]interface{}{
		forecastEntry(1709251200, 10, 8, 12, 0.5, 50, "Rain"),
	}))
	if err != nil {
		t.Fatalf("NormalizeForecast failed: %v", err)
	}
	if len(forecast.Daily) != 1 {
		t.Errorf("Expected 1 daily entry, got %d", len(forecast.Daily))
	}
}

func TestNormalizeForecastEmptyList(t *testing.T) {
	_, err := NormalizeForecast([]byte(`{"list": []}`))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Expected ErrMalformedPayload, got %v", err)
	}
}

func airQualityFixture(aqi int) []byte {
	return []byte(fmt.Sprintf(`{
		"list": [{
			"dt": 1709287200,
			"main": {"aqi": %d},
			"components": {"co": 230.3, "no": 0.1, "no2": 8.4, "o3": 68.7, "so2": 1.2, "pm2_5": 5.6, "pm10": 7.8, "nh3": 0.9}
		}]
	}`, aqi))
}

func TestNormalizeAirQuality(t *testing.T) {
	labels := map[int]string{1: "Good", 2: "Fair", 3: "Moderate", 4: "Poor", 5: "Very Poor"}

	for aqi, label := range labels {
		aq, err := NormalizeAirQuality(airQualityFixture(aqi))
		if err != nil {
			t.Fatalf("NormalizeAirQuality(%d) failed: %v", aqi, err)
		}
		if aq.AQI != aqi || aq.Label != label {
			t.Errorf("Expected %d/%s, got %d/%s", aqi, label, aq.AQI, aq.Label)
		}
	}

	aq, err := NormalizeAirQuality(airQualityFixture(2))
	if err != nil {
		t.Fatalf("NormalizeAirQuality failed: %v", err)
	}
	if aq.Components.PM25 != 5.6 || aq.Components.CO != 230.3 {
		t.Errorf("Unexpected components: %+v", aq.Components)
	}
}

func TestNormalizeAirQualityOutOfRange(t *testing.T) {
	for _, aqi := range []int{0, 6, -1} {
		_, err := NormalizeAirQuality(airQualityFixture(aqi))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("Expected ErrMalformedPayload for aqi %d, got %v", aqi, err)
		}
	}
}

func TestWindDirectionLabel(t *testing.T) {
	cases := []struct {
		degrees float64
		label   string
	}{
		{0, "N"},
		{22.5, "NNE"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{337.5, "NNW"},
		{350, "N"},
		{360, "N"},
	}

	for _, tc := range cases {
		if got := WindDirectionLabel(tc.degrees); got != tc.label {
			t.Errorf("WindDirectionLabel(%v) = %s, expected %s", tc.degrees, got, tc.label)
		}
	}
}
