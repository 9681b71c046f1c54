package middleware

import (
	"net/http"
	"time"

	"github.com/nocturnehq/nocturne/internal/xslog"
)

// statusRecorder captures the response code for the access log. Defaults
// to 200 because handlers that never call WriteHeader implicitly send it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Logging emits one access-log line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		xslog.FromContext(r.Context()).InfoContext(r.Context(), "http request",
			xslog.RequestGroup(r),
			xslog.ResponseGroup(rec.status, time.Since(start)),
		)
	})
}
