package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jeffa5/matcher/pkg/observability"
)

// Metrics records Prometheus request counts and durations, labeled by the
// chi route pattern rather than the raw path so cardinality stays bounded.
func Metrics() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			observability.HTTPRequestsTotal.
				WithLabelValues(r.Method, pattern, strconv.Itoa(ww.Status())).
				Inc()
			observability.HTTPRequestDuration.
				WithLabelValues(r.Method, pattern).
				Observe(time.Since(start).Seconds())
		})
	}
}
