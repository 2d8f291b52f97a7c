package handlers

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/skylens/weather-assistant/internal/server/middlewares"
	"go.uber.org/zap"
)

// appMetrics holds application-level counters: advice outcomes by category
// and source, upstream weather calls and their failures.
type appMetrics struct {
	mutex         sync.RWMutex
	adviceResults map[string]int64
	weatherCalls  map[string]int64
	weatherErrors map[string]int64
}

type MetricsHandler struct {
	logger *zap.Logger
	app    *appMetrics
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		app: &appMetrics{
			adviceResults: make(map[string]int64),
			weatherCalls:  make(map[string]int64),
			weatherErrors: make(map[string]int64),
		},
	}
}

// RecordAdviceResult counts one advice outcome, keyed by category and source.
func (h *MetricsHandler) RecordAdviceResult(category, source string) {
	h.app.mutex.Lock()
	h.app.adviceResults[category+"_"+source]++
	h.app.mutex.Unlock()
}

// RecordWeatherCall counts one upstream weather lookup.
func (h *MetricsHandler) RecordWeatherCall(endpoint string, success bool) {
	h.app.mutex.Lock()
	h.app.weatherCalls[endpoint]++
	if !success {
		h.app.weatherErrors[endpoint]++
	}
	h.app.mutex.Unlock()
}

// ServeMetrics exposes HTTP and application counters in Prometheus text
// format. HTTP counters arrive via the metrics middleware through the Gin
// context.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.app.mutex.RLock()
	defer h.app.mutex.RUnlock()

	response := ""

	if httpMetrics := h.getHTTPMetricsFromContext(c); httpMetrics != nil {
		httpMetrics.Mutex.RLock()

		var avgDuration float64
		if len(httpMetrics.RequestDurations) > 0 {
			sum := 0.0
			for _, d := range httpMetrics.RequestDurations {
				sum += d
			}
			avgDuration = sum / float64(len(httpMetrics.RequestDurations))
		}

		response += "# HELP http_requests_total Total number of HTTP requests\n"
		response += "# TYPE http_requests_total counter\n"
		for key, count := range httpMetrics.RequestsTotal {
			response += "http_requests_total{route_status=\"" + key + "\"} " + strconv.FormatInt(count, 10) + "\n"
		}

		response += "\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n"
		response += "# TYPE http_request_duration_seconds_avg gauge\n"
		response += "http_request_duration_seconds_avg " + strconv.FormatFloat(avgDuration, 'f', 6, 64) + "\n"

		response += "\n# HELP http_active_requests Number of active HTTP requests\n"
		response += "# TYPE http_active_requests gauge\n"
		response += "http_active_requests " + strconv.FormatInt(httpMetrics.ActiveRequests, 10) + "\n"

		httpMetrics.Mutex.RUnlock()
	}

	response += "\n# HELP advice_results_total Total advice results by category and source\n"
	response += "# TYPE advice_results_total counter\n"
	for key, count := range h.app.adviceResults {
		response += "advice_results_total{category_source=\"" + key + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	response += "\n# HELP weather_upstream_calls_total Total upstream weather calls\n"
	response += "# TYPE weather_upstream_calls_total counter\n"
	for endpoint, count := range h.app.weatherCalls {
		response += "weather_upstream_calls_total{endpoint=\"" + endpoint + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	response += "\n# HELP weather_upstream_errors_total Total upstream weather failures\n"
	response += "# TYPE weather_upstream_errors_total counter\n"
	for endpoint, count := range h.app.weatherErrors {
		response += "weather_upstream_errors_total{endpoint=\"" + endpoint + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, response)
}

func (h *MetricsHandler) getHTTPMetricsFromContext(c *gin.Context) *middlewares.HTTPMetrics {
	if value, exists := c.Get("http_metrics"); exists {
		if metrics, ok := value.(*middlewares.HTTPMetrics); ok {
			return metrics
		}
	}
	return nil
}
