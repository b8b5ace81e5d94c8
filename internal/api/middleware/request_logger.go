package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger логирует каждый запрос и проставляет X-Request-ID
func RequestLogger(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info("%s %s - status=%d, duration_ms=%d, request_id=%s, remote_ip=%s",
				r.Method, r.URL.Path, rec.status, time.Since(started).Milliseconds(), reqID, RemoteHost(r))
		})
	}
}
