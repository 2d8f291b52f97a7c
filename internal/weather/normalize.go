package weather

import (
	"encoding/json"
	"math"
	"time"
)

// aqiLabels is the fixed OpenWeather air quality index mapping.
var aqiLabels = map[int]string{
	1: "Good",
	2: "Fair",
	3: "Moderate",
	4: "Poor",
	5: "Very Poor",
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

const (
	maxHourlyEntries = 24
	maxForecastDays  = 7
	mpsToKmh         = 3.6
)

// NormalizeCurrent converts a raw /weather payload into a WeatherRecord.
// Temperatures are rounded to integral degrees, wind speed is converted from
// m/s to km/h, visibility from meters to kilometers. Returns an error wrapping
// ErrMalformedPayload when coordinates, temperature or the weather condition
// are missing; no partially populated record is ever returned.
func NormalizeCurrent(raw []byte) (*WeatherRecord, error) {
	var p currentPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, malformedf("invalid current weather JSON: %v", err)
	}

	if p.Coord == nil {
		return nil, malformedf("missing coordinates")
	}
	if p.Main == nil || p.Main.Temp == nil {
		return nil, malformedf("missing temperature")
	}
	if len(p.Weather) == 0 {
		return nil, malformedf("missing weather condition")
	}

	wind := Wind{}
	if p.Wind != nil {
		wind.Speed = roundInt(p.Wind.Speed * mpsToKmh)
		wind.Direction = ((p.Wind.Deg % 360) + 360) % 360
		if p.Wind.Gust != nil {
			gust := roundInt(*p.Wind.Gust * mpsToKmh)
			wind.Gust = &gust
		}
	}

	var visibility *int
	if p.Visibility != nil {
		km := roundInt(float64(*p.Visibility) / 1000)
		visibility = &km
	}

	record := &WeatherRecord{
		Location: Location{
			Name:           p.Name,
			Country:        p.Sys.Country,
			Coordinates:    Coordinates{Lat: p.Coord.Lat, Lon: p.Coord.Lon},
			TimezoneOffset: p.Timezone,
			Sunrise:        time.Unix(p.Sys.Sunrise, 0).UTC(),
			Sunset:         time.Unix(p.Sys.Sunset, 0).UTC(),
		},
		Current: CurrentConditions{
			Temperature: roundInt(*p.Main.Temp),
			FeelsLike:   roundInt(p.Main.FeelsLike),
			TempMin:     roundInt(p.Main.TempMin),
			TempMax:     roundInt(p.Main.TempMax),
			Pressure:    p.Main.Pressure,
			Humidity:    p.Main.Humidity,
			Visibility:  visibility,
			Condition:   p.Weather[0].Main,
			Description: p.Weather[0].Description,
			Icon:        p.Weather[0].Icon,
			Wind:        wind,
			Clouds:      p.Clouds.All,
			Precipitation: Precipitation{
				Rain1h: p.Rain["1h"],
				Snow1h: p.Snow["1h"],
			},
		},
		Timestamp: time.Unix(p.Dt, 0).UTC(),
		Raw:       json.RawMessage(raw),
	}

	return record, nil
}

// NormalizeForecast converts a raw /forecast payload. The hourly sequence is
// the first 24 list entries in provider order; the daily sequence groups
// entries by UTC calendar day in first-seen order, taking the minimum of the
// per-entry minima, the maximum of the maxima and the maximum precipitation
// probability, capped at 7 days.
func NormalizeForecast(raw []byte) (*Forecast, error) {
	var p forecastPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, malformedf("invalid forecast JSON: %v", err)
	}
	if len(p.List) == 0 {
		return nil, malformedf("forecast list is empty")
	}

	hourlyCount := len(p.List)
	if hourlyCount > maxHourlyEntries {
		hourlyCount = maxHourlyEntries
	}

	hourly := make([]HourlyEntry, 0, hourlyCount)
	for _, item := range p.List[:hourlyCount] {
		if len(item.Weather) == 0 {
			return nil, malformedf("forecast entry missing weather condition")
		}

		amount := item.Rain["3h"]
		if amount == 0 {
			amount = item.Snow["3h"]
		}

		hourly = append(hourly, HourlyEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: roundInt(item.Main.Temp),
			Condition:   item.Weather[0].Main,
			Description: item.Weather[0].Description,
			Icon:        item.Weather[0].Icon,
			Precipitation: HourlyPrecipitation{
				Probability: roundInt(item.Pop * 100),
				Amount:      amount,
			},
			Wind: Wind{
				Speed:     roundInt(item.Wind.Speed * mpsToKmh),
				Direction: ((item.Wind.Deg % 360) + 360) % 360,
			},
		})
	}

	type dayAccumulator struct {
		first   forecastItem
		tempMin float64
		tempMax float64
		maxPop  float64
	}

	groups := make(map[string]*dayAccumulator)
	order := make([]string, 0, maxForecastDays)

	for _, item := range p.List {
		if len(item.Weather) == 0 {
			return nil, malformedf("forecast entry missing weather condition")
		}

		key := time.Unix(item.Dt, 0).UTC().Format("2006-01-02")
		acc, ok := groups[key]
		if !ok {
			if len(order) >= maxForecastDays {
				continue
			}
			acc = &dayAccumulator{
				first:   item,
				tempMin: item.Main.TempMin,
				tempMax: item.Main.TempMax,
				maxPop:  item.Pop,
			}
			groups[key] = acc
			order = append(order, key)
			continue
		}

		acc.tempMin = math.Min(acc.tempMin, item.Main.TempMin)
		acc.tempMax = math.Max(acc.tempMax, item.Main.TempMax)
		acc.maxPop = math.Max(acc.maxPop, item.Pop)
	}

	daily := make([]ForecastDay, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		daily = append(daily, ForecastDay{
			Date:          time.Unix(acc.first.Dt, 0).UTC(),
			TempMin:       roundInt(acc.tempMin),
			TempMax:       roundInt(acc.tempMax),
			Condition:     acc.first.Weather[0].Main,
			Description:   acc.first.Weather[0].Description,
			Icon:          acc.first.Weather[0].Icon,
			Precipitation: roundInt(acc.maxPop * 100),
			Humidity:      acc.first.Main.Humidity,
		})
	}

	return &Forecast{Hourly: hourly, Daily: daily}, nil
}

// NormalizeAirQuality converts a raw /air_pollution payload into an
// AirQuality record. The AQI index must be within the 1-5 label table.
func NormalizeAirQuality(raw []byte) (*AirQuality, error) {
	var p airQualityPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, malformedf("invalid air quality JSON: %v", err)
	}
	if len(p.List) == 0 {
		return nil, malformedf("air quality list is empty")
	}

	entry := p.List[0]
	label, ok := aqiLabels[entry.Main.AQI]
	if !ok {
		return nil, malformedf("air quality index %d out of range", entry.Main.AQI)
	}

	return &AirQuality{
		AQI:        entry.Main.AQI,
		Label:      label,
		Components: entry.Components,
		Timestamp:  time.Unix(entry.Dt, 0).UTC(),
	}, nil
}

// WindDirectionLabel maps compass degrees to one of the 16 compass points.
// 360 wraps back to N.
func WindDirectionLabel(degrees float64) string {
	idx := roundInt(degrees/22.5) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
