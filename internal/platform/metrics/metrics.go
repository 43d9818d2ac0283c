// Package metrics exposes Prometheus collectors for the HTTP layer and task
// lifecycle.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	TaskEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_task_events_total",
			Help: "Total number of task lifecycle events emitted",
		},
		[]string{"type"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_auth_attempts_total",
			Help: "Registration, login and refresh attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// unmatchedPath labels requests that matched no route, keeping label
// cardinality bounded.
const unmatchedPath = "unmatched"

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordAuthAttempt counts an auth operation with outcome "success" or "failure".
func RecordAuthAttempt(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}

// Middleware records duration and count for every request, labelled by the
// chi route pattern rather than the raw path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordHTTPRequest(r.Method, routePattern(r), status, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedPath
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// EventCounter counts task events by type. It implements events.EventHandler.
type EventCounter struct{}

var _ events.EventHandler = EventCounter{}

// HandleEvent implements events.EventHandler.
func (EventCounter) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	TaskEventsTotal.WithLabelValues(event.Type).Inc()
	return nil
}
