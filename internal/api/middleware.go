package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/projectteamwork/finrec/internal/logger"
	"github.com/projectteamwork/finrec/internal/observability"
)

// RequestLogger logs every completed request with its request id, status and
// duration, and records the HTTP metrics. 4xx responses log at Warn, 5xx at
// Error.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			log := base.With(slog.String("request_id", reqID))
			ctx := logger.WithContext(r.Context(), log)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			duration := time.Since(start)
			status := ww.Status()

			// The route pattern keeps metric cardinality bounded; the raw
			// path would explode on per-user URLs.
			routePattern := chi.RouteContext(r.Context()).RoutePattern()
			if routePattern == "" {
				routePattern = "unmatched"
			}
			observability.HTTPReqDuration.WithLabelValues(r.Method, routePattern).Observe(duration.Seconds())
			observability.HTTPReqTotal.WithLabelValues(r.Method, routePattern, strconv.Itoa(status)).Inc()

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}

			log.Log(r.Context(), level, "HTTP request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.String("duration", duration.String()),
				slog.String("remote_ip", r.RemoteAddr),
			)
		})
	}
}
