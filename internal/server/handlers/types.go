package handlers

// CoordinatesRequest carries a point for weather and advice lookups.
type CoordinatesRequest struct {
	Lat float64 `form:"lat" json:"lat" binding:"required" validate:"required,latitude"`
	Lon float64 `form:"lon" json:"lon" binding:"required" validate:"required,longitude"`
}

// CurrentWeatherRequest accepts either coordinates or a free-text city name.
type CurrentWeatherRequest struct {
	Lat  *float64 `form:"lat" json:"lat" validate:"omitempty,latitude"`
	Lon  *float64 `form:"lon" json:"lon" validate:"omitempty,longitude"`
	City string   `form:"city" json:"city" validate:"omitempty,min=1,max=100"`
}

// GeocodeRequest is a city search query.
type GeocodeRequest struct {
	Query string `form:"q" json:"q" binding:"required" validate:"required,min=1,max=100"`
}

// ChatRequest is a free-form chat turn with the weather context point.
type ChatRequest struct {
	Message string  `json:"message" binding:"required" validate:"required,min=1,max=500"`
	Lat     float64 `json:"lat" binding:"required" validate:"required,latitude"`
	Lon     float64 `json:"lon" binding:"required" validate:"required,longitude"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
