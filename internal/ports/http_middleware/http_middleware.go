package http_middleware

import (
	"net/http"

	"github.com/isabella232/manta-rebalancer/domain"
	"github.com/isabella232/manta-rebalancer/metrics"
)

// errorBucket5xx is the error_count bucket used for 5xx responses.
const errorBucket5xx = "http_5xx"

// responseWriter is a wrapper around http.ResponseWriter to capture the
// status code and the number of body bytes written.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	return n, err
}

// InstrumentHandler wraps next so that every request it serves is reflected
// in the well-known instruments: request_count partitioned by HTTP method,
// error_count for 5xx responses, and bytes_count for response payload sizes.
func InstrumentHandler(updater domain.Updater, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		updater.CounterVecInc(metrics.RequestCount, r.Method)
		if rw.statusCode >= http.StatusInternalServerError {
			updater.CounterVecInc(metrics.ErrorCount, errorBucket5xx)
		}
		if rw.bytes > 0 {
			updater.CounterIncBy(metrics.BytesCount, uint64(rw.bytes))
		}
	})
}
