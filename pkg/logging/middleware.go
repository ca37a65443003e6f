package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs each HTTP request once it completes and puts a
// request-scoped logger into the request context. It picks up the request
// id set by chi's RequestID middleware when present.
func RequestLogger(logger Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			fields := []Field{
				String("method", r.Method),
				String("path", r.URL.Path),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				fields = append(fields, String("request_id", id))
			}
			reqLogger := logger.With(fields...)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ContextWithLogger(r.Context(), reqLogger)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqLogger.Info("request completed",
				Int("status", status),
				Int("bytes", ww.BytesWritten()),
				Duration("duration", time.Since(start)),
			)
		})
	}
}
