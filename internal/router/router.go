package router

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lumenlab/lampcore/internal/audit"
	"github.com/lumenlab/lampcore/internal/lamp"
	"github.com/lumenlab/lampcore/internal/user"
	"github.com/lumenlab/lampcore/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

type ctxKey int

const requestIDKey ctxKey = 0

// RequestIDMiddleware stamps every request with a snowflake correlation ID,
// exposed on the X-Request-Id response header and available to the access log.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := utilities.NewRequestID()
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

// LoggingMiddleware returns a middleware that logs requests at debug level
// using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			reqID, _ := r.Context().Value(requestIDKey).(string)
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", reqID,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP
// security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if r.TLS != nil {
				// 30 days
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's
// http.ServeMux. Method-qualified patterns handle method mismatches.
func RegisterRoutes(logger *zap.SugaredLogger, userH *user.Handler, lampH *lamp.Handler, auditH *audit.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/register_user", userH.Register)
	mux.HandleFunc("POST /api/authenticate_user", userH.Authenticate)

	mux.HandleFunc("POST /api/create_lamp/{userToken}", lampH.Create)
	mux.HandleFunc("GET /api/retrieve_all_lamps/{userToken}", lampH.List)
	mux.HandleFunc("GET /api/retrieve_lamp/{userToken}/{lampToken}", lampH.Get)
	mux.HandleFunc("PUT /api/update_lamp/{userToken}/{lampToken}", lampH.Update)
	mux.HandleFunc("DELETE /api/delete_lamp/{userToken}/{lampToken}", lampH.Delete)

	mux.HandleFunc("GET /api/retrieve_all_deleted_datas/{userToken}", auditH.List)

	handler := RequestIDMiddleware()(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux)))
	return handler
}
