package server

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
)

// serveStatic sends the workspace file at name. Regular files go through
// ServeContent so /index.html is served as-is instead of redirecting to /;
// directories are left to http.FileServer.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, name string) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	f, err := s.root.Open(name)
	if err != nil {
		staticError(w, r, err)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		staticError(w, r, err)
		return
	}
	if st.IsDir() {
		s.files.ServeHTTP(w, r)
		return
	}
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}

func staticError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.NotFound(w, r)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}
