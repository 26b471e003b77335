package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"clementus360/focusflow/config"
	"clementus360/focusflow/telemetry"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const httpScope = "clementus360/focusflow/http"

var (
	httpMetricsOnce sync.Once
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
)

func initHTTPMetrics() {
	m := telemetry.Meter(httpScope)
	requestDuration, _ = m.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"),
	)
	requestCount, _ = m.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"),
	)
}

// Logging logs every request with its status and duration and records the
// request metrics.
func Logging(next http.Handler) http.Handler {
	httpMetricsOnce.Do(initHTTPMetrics)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a wrapper to capture response status
		wrapper := &responseWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		fields := logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapper.statusCode,
			"duration":    duration.String(),
			"remote_addr": r.RemoteAddr,
		}
		entry := config.Logger.WithFields(fields)
		switch {
		case wrapper.statusCode >= 500:
			entry.Error("HTTP Request")
		case wrapper.statusCode >= 400:
			entry.Warn("HTTP Request")
		default:
			entry.Info("HTTP Request")
		}

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.Int("http.response.status_code", wrapper.statusCode),
		)
		ctx := context.WithoutCancel(r.Context())
		if requestDuration != nil {
			requestDuration.Record(ctx, duration.Seconds(), attrs)
		}
		if requestCount != nil {
			requestCount.Add(ctx, 1, attrs)
		}
	})
}

// Recover turns a handler panic into a 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				config.Logger.WithFields(logrus.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  rec,
				}).Error("handler panicked")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"success":false,"error":"internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
