// Package web serves the browser client's pages and assets.
package web

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/taskflow/internal/logging"
)

const (
	contentTypeHTML = "text/html"
	contentTypeCSS  = "text/css"
	contentTypeJS   = "application/javascript"
)

// Files maps every servable URL path to its content type. Anything else is 404.
var Files = map[string]string{
	"/":               contentTypeHTML,
	"/index.html":     contentTypeHTML,
	"/signup.html":    contentTypeHTML,
	"/dashboard.html": contentTypeHTML,
	"/add_task.html":  contentTypeHTML,
	"/task.html":      contentTypeHTML,
	"/calendar.html":  contentTypeHTML,
	"/team.html":      contentTypeHTML,
	"/profile.html":   contentTypeHTML,
	"/styles.css":     contentTypeCSS,
	"/script.js":      contentTypeJS,
}

// Site reads whitelisted files from a file system on every request, so edits
// to the pages show up without a restart.
type Site struct {
	files fs.FS
}

// NewSite serves files from dir.
func NewSite(dir string) *Site {
	return NewSiteFS(os.DirFS(dir))
}

func NewSiteFS(files fs.FS) *Site {
	return &Site{files: files}
}

// Mount registers a GET route for every whitelisted path.
func (s *Site) Mount(r chi.Router) {
	for path := range Files {
		r.Get(path, s.ServeHTTP)
	}
}

func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	contentType, ok := Files[r.URL.Path]
	if !ok {
		http.Error(w, "File Not Found", http.StatusNotFound)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		name = "index.html"
	}

	data, err := fs.ReadFile(s.files, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.GetLoggerFromContext(r.Context()).Error("failed to read static file", "file", name, "error", err.Error())
		}
		http.Error(w, "File Not Found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
