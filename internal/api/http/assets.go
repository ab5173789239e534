package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/profedug/GabaritaIF/internal/storage"
)

// publicPrefixes are the blob namespaces served without a token so image
// tags can load them.
var publicPrefixes = []string{"photos/"}

// MountAssets serves stored blobs such as profile photos.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	// GET /assets/photos/<owner>/<name>.<ext>
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if !isPublic(key) {
			http.NotFound(w, r)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		// photo keys are never rewritten, a new upload gets a new name
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, rc)
	})
}

func isPublic(key string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
