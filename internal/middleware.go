package internal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/store"
)

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// requestLogger logs one line per request with its status and latency.
// Server errors are logged at error level.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rw, r)

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rw.code,
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  requestID(r),
			})
			switch {
			case rw.code >= http.StatusInternalServerError:
				entry.Error("request")
			case r.URL.Path == "/health":
				entry.Debug("request")
			default:
				entry.Info("request")
			}
		})
	}
}

// withActor hands the authenticated user id to the store, which sets it as
// the row-level-security actor for the request's queries.
func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := auth.UserID(r.Context()); ok {
			r = r.WithContext(store.WithActor(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
