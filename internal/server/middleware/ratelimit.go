package middleware

import (
	"net/http"

	"github.com/nocturnehq/nocturne/internal/storage"
	"github.com/nocturnehq/nocturne/internal/xerrors"
	"github.com/nocturnehq/nocturne/internal/xhttp"
	"github.com/nocturnehq/nocturne/internal/xslog"
)

// RateLimit applies IP-based rate limiting to upload traffic.
func RateLimit(backend storage.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := xslog.FromContext(r.Context())
			ip := xhttp.GetRequestIP(r)

			result, err := backend.Allow(r.Context(), ip)
			if err != nil {
				logger.ErrorContext(r.Context(), "rate limit check failed",
					xslog.ErrorGroup(err),
					xslog.IP(ip),
				)
				xerrors.WriteError(r.Context(), w, xerrors.ServiceUnavailable(xerrors.WithMessage("rate limit check failed")))
				return
			}

			if !result.Allowed {
				xerrors.WriteError(r.Context(), w, xerrors.TooManyRequests(xerrors.WithRetryAfter(result.RetryAfter)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
