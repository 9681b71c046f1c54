package middleware

import (
	"net/http"

	"github.com/nocturnehq/nocturne/internal/xhttp"
	"github.com/nocturnehq/nocturne/internal/xslog"
)

// Recovery turns a handler panic into a logged 500 instead of a dropped
// connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			xslog.FromContext(r.Context()).ErrorContext(r.Context(), "panic recovered",
				xslog.RequestGroup(r),
				xslog.ErrorGroupWithStack(v),
			)
			xhttp.Error(w, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
