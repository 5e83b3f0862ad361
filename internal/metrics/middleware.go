package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests partitioned by status code, method and route.",
	},
	[]string{"code", "method", "path"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time spent on the request partitioned by status code, method and route.",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 30, 120},
	},
	[]string{"code", "method", "path"},
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// Middleware counts requests and their latency by chi route pattern, so
// path parameters never create new series.
func Middleware(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		rctx := chi.RouteContext(r.Context())
		if rctx == nil {
			return
		}
		route := rctx.RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		requestsTotal.WithLabelValues(code, r.Method, route).Inc()
		requestDuration.WithLabelValues(code, r.Method, route).Observe(time.Since(start).Seconds())
	}
	return http.HandlerFunc(fn)
}
