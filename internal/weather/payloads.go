package weather

// Raw OpenWeather payload schemas. Pointer fields distinguish "absent" from
// zero so normalization can fail fast on missing required data instead of
// silently producing zeroed records.

type rawCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type rawCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type rawMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike float64  `json:"feels_like"`
	TempMin   float64  `json:"temp_min"`
	TempMax   float64  `json:"temp_max"`
	Pressure  int      `json:"pressure"`
	Humidity  int      `json:"humidity"`
}

type rawWind struct {
	Speed float64  `json:"speed"`
	Deg   int      `json:"deg"`
	Gust  *float64 `json:"gust"`
}

// currentPayload mirrors /data/2.5/weather.
type currentPayload struct {
	Coord   *rawCoord      `json:"coord"`
	Weather []rawCondition `json:"weather"`
	Main    *rawMain       `json:"main"`
	// Visibility is meters, capped at 10km by the provider and sometimes absent.
	Visibility *int     `json:"visibility"`
	Wind       *rawWind `json:"wind"`
	Clouds     struct {
		All int `json:"all"`
	} `json:"clouds"`
	Rain map[string]float64 `json:"rain"`
	Snow map[string]float64 `json:"snow"`
	Dt   int64              `json:"dt"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

type forecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []rawCondition     `json:"weather"`
	Wind    rawWind            `json:"wind"`
	Pop     float64            `json:"pop"`
	Rain    map[string]float64 `json:"rain"`
	Snow    map[string]float64 `json:"snow"`
}

// forecastPayload mirrors /data/2.5/forecast (3-hour slots).
type forecastPayload struct {
	List []forecastItem `json:"list"`
}

// airQualityPayload mirrors /data/2.5/air_pollution.
type airQualityPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components AirQualityComponents `json:"components"`
	} `json:"list"`
}

// geocodePayload mirrors /geo/1.0/direct.
type geocodePayload []struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
