package control

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/surface-dev/surface/pkg/registry"
)

// tracerName identifies the control server's tracer.
const tracerName = "surface/control"

// apiMetrics holds the Prometheus metrics for the control surface.
type apiMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	updatesTotal    *prometheus.CounterVec
}

// newAPIMetrics registers the metrics with the given registerer.
func newAPIMetrics(reg prometheus.Registerer) *apiMetrics {
	factory := promauto.With(reg)

	return &apiMetrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surface",
			Name:      "requests_total",
			Help:      "Total control API requests by route and status code",
		}, []string{"route", "code"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "surface",
			Name:      "request_duration_seconds",
			Help:      "Control API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surface",
			Name:      "updates_total",
			Help:      "Component prop updates by outcome",
		}, []string{"outcome"}),
	}
}

// recordUpdate counts an update outcome by class.
func (m *apiMetrics) recordUpdate(status registry.UpdateStatus) {
	outcome := "success"
	switch {
	case status.IsError():
		outcome = "not_found"
	case status.IsWarning():
		outcome = "empty"
	}
	m.updatesTotal.WithLabelValues(outcome).Inc()
}

// statusRecorder captures the response code for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack passes through so the watch endpoint can upgrade.
func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("control: response writer does not support hijacking")
	}
	return hj.Hijack()
}

// Flush passes through for streaming responses.
func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// instrument times every request, counts it by route pattern and
// status, and wraps it in an OpenTelemetry span. The tracer comes from
// the global provider; configure that in main().
func (s *Server) instrument(next http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		rr := r.WithContext(ctx)
		next.ServeHTTP(rec, rr)

		route := "unmatched"
		if rctx := chi.RouteContext(rr.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		span.SetAttributes(attribute.Int("http.status_code", rec.code))
		if rec.code >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.code))
		} else {
			span.SetStatus(codes.Ok, "")
		}

		s.metrics.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.metrics.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	})
}
