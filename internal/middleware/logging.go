package middleware

import (
	"bufio"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sideline-backend/internal/monitoring"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

// metricPath returns the matched route template so path parameters do not
// mint unbounded prometheus label values. Unmatched requests share one
// label.
func metricPath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

// RequestLogging logs each request and records it in prometheus. Health
// and metrics probes are skipped.
func RequestLogging(metrics *monitoring.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start)

			log.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, wrapped.status, duration)
			if metrics != nil {
				metrics.RecordRequest(r.Method, metricPath(r), wrapped.status, duration)
			}
		})
	}
}
