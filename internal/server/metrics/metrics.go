package metrics

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	WindRequestsTotal *prometheus.CounterVec
	WindErrorsTotal   *prometheus.CounterVec
}

// NewMetrics constructs and registers all service metrics.
func NewMetrics(serviceName string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		WindRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "wind_requests_total",
				Help:      "Total number of wind data requests",
			},
			[]string{"station"},
		),
		WindErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "wind_errors_total",
				Help:      "Total number of wind data errors",
			},
			[]string{"station", "error_type"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WindRequestsTotal,
		m.WindErrorsTotal,
	)
	return m
}

// HTTPMiddleware returns a Gin middleware instrumenting HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		status := c.Writer.Status()
		statusClass := getStatusClass(status)

		labels := prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     c.FullPath(),
			"status_class": statusClass,
		}
		m.HTTPRequestsTotal.With(labels).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": c.FullPath(),
		}).Observe(d.Seconds())

		// domain metrics
		if station := c.Query("station"); station != "" {
			m.WindRequestsTotal.WithLabelValues(station).Inc()
			if statusClass == "5xx" {
				m.WindErrorsTotal.WithLabelValues(station, "server_error").Inc()
			}
			if statusClass == "4xx" {
				m.WindErrorsTotal.WithLabelValues(station, "client_error").Inc()
			}
		}
	}
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
