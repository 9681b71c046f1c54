package xhttp

import (
	"net"
	"net/http"
)

// GetRequestIP resolves the client address, preferring the proxy-supplied
// X-Forwarded-For header over the transport peer address.
func GetRequestIP(r *http.Request) string {
	if xff := r.Header.Get(XForwardedFor); xff != "" {
		return stripPort(xff)
	}
	return stripPort(r.RemoteAddr)
}

func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
