package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type instrumentedWriter struct {
	http.ResponseWriter
	status int
}

func (w *instrumentedWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Metrics records request counts, durations and in-flight totals. The route
// pattern is used as the path label so every looked-up code does not become
// its own series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		HTTPRequestInFlight.Inc()
		defer HTTPRequestInFlight.Dec()

		iw := &instrumentedWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(iw, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()

		HTTPRequestTotals.WithLabelValues(r.Method, pattern, strconv.Itoa(iw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
