package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-polarity/pkg/logging"
)

// Logging logs one line per request with status, size and latency. Server
// errors log at error level.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	logger = logger.With(logging.Component("http"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.Path(r.URL.Path),
				logging.Int("status", rec.statusCode),
				logging.Int("bytes", rec.bytesWritten),
				logging.Latency(time.Since(start)),
			}
			if id := GetRequestID(r); id != "" {
				fields = append(fields, logging.String("request_id", id))
			}

			if rec.statusCode >= http.StatusInternalServerError {
				logger.Error("request", fields...)
			} else {
				logger.Info("request", fields...)
			}
		})
	}
}
