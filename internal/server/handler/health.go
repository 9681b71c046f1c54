package handler

import (
	"net/http"

	"github.com/nocturnehq/nocturne/internal/xhttp"
)

type healthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		xhttp.WriteOK(w, healthResponse{OK: true, Version: version})
	}
}
