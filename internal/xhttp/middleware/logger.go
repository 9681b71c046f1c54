package middleware

import (
	"log/slog"
	"net/http"

	"github.com/nocturnehq/nocturne/internal/xcontext"
	"github.com/nocturnehq/nocturne/internal/xslog"
)

// Logger puts a request-scoped logger into context. Listed after
// RequestID in the chain so the id is already set.
func Logger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base
			if id, ok := xcontext.GetRequestID(r.Context()); ok {
				logger = logger.With(xslog.RequestID(id))
			}
			next.ServeHTTP(w, r.WithContext(xslog.WithLogger(r.Context(), logger)))
		})
	}
}
