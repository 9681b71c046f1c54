package middleware

import (
	"net/http"
	"slices"
)

// Chain wraps h so the first listed middleware runs outermost.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	slices.Reverse(middleware)
	for _, m := range middleware {
		h = m(h)
	}
	return h
}
