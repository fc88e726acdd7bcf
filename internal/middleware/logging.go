package middleware

import (
	"net/http"
	"time"

	"vitalpet/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger loguea una línea por request con método, path, status y
// duración. Usa el request id que inyecta chi/middleware.RequestID.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http request", map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": chimw.GetReqID(r.Context()),
			})
		})
	}
}
