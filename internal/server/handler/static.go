package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/nocturnehq/nocturne/internal/xerrors"
)

// Frontend serves the compiled frontend bundle when it exists on disk.
// Without a bundle the root responds with a JSON hint instead of a blank 404.
func Frontend(dir string) http.Handler {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			xerrors.WriteError(r.Context(), w, xerrors.NotFound(
				xerrors.WithMessage("frontend bundle not found, use the /api endpoints"),
			))
		})
	}

	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.ServeFile(w, r, index)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
