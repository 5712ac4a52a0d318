package server

import (
	"net/http"

	"gsmforecast/internal/metrics"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMiddleware adds CORS and request id headers, answers preflight requests
// and counts the request under route
func withMiddleware(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		h := w.Header()
		h.Set(requestIDHeader, id)
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		h.Set("Access-Control-Expose-Headers", requestIDHeader)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if r.Method == http.MethodOptions {
			rec.WriteHeader(http.StatusNoContent)
		} else {
			next(rec, r)
		}

		metrics.RecordHTTPRequest(route, rec.status)
	})
}
