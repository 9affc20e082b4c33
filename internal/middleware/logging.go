package middleware

import (
	"net/http"
	"strings"
	"time"

	"trainingorg/quizdesk/internal/logging"
)

var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

// DebugLogging logs request headers and timing at debug level. Mounted only
// outside production.
func DebugLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string, len(r.Header))
		for name, vals := range r.Header {
			if redactedHeaders[name] {
				headers[name] = "[redacted]"
				continue
			}
			headers[name] = strings.Join(vals, ", ")
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		logging.Debug("request",
			"request_id", GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"headers", headers,
			"status", rec.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}
