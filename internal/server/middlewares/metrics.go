package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics holds request counters shared with the metrics handler.
type HTTPMetrics struct {
	Mutex            sync.RWMutex
	RequestsTotal    map[string]int64
	RequestDurations []float64
	ActiveRequests   int64
}

type MetricsMiddleware struct {
	metrics *HTTPMetrics
}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: &HTTPMetrics{
			RequestsTotal:    make(map[string]int64),
			RequestDurations: make([]float64, 0),
		},
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.metrics.Mutex.Lock()
		m.metrics.ActiveRequests++
		m.metrics.Mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()
		key := c.Request.Method + " " + c.FullPath() + "_" + strconv.Itoa(c.Writer.Status())

		m.metrics.Mutex.Lock()
		m.metrics.RequestsTotal[key]++
		m.metrics.RequestDurations = append(m.metrics.RequestDurations, duration)
		m.metrics.ActiveRequests--

		// Bound memory held by the duration window.
		if len(m.metrics.RequestDurations) > 1000 {
			m.metrics.RequestDurations = m.metrics.RequestDurations[len(m.metrics.RequestDurations)-1000:]
		}
		m.metrics.Mutex.Unlock()
	}
}

// GetHTTPMetrics exposes the counters to the metrics handler.
func (m *MetricsMiddleware) GetHTTPMetrics() *HTTPMetrics {
	return m.metrics
}
