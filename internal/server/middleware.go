package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teemow/slotbooker/internal/instrumentation"
)

// instrument records request metrics under the matched route pattern and
// logs each request at debug level.
func instrument(metrics *instrumentation.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			pattern := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				pattern = rctx.RoutePattern()
			}
			duration := time.Since(start)

			metrics.RecordHTTPRequest(r.Context(), r.Method, pattern, status, duration)
			logger.Debug("http request",
				"method", r.Method,
				"route", instrumentation.NormalizePath(pattern),
				"status", status,
				"request_id", middleware.GetReqID(r.Context()),
				"duration", duration)
		})
	}
}
