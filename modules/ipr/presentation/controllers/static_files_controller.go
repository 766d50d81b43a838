package controllers

import (
	"net/http"
	"strings"

	"github.com/benbjohnson/hashfs"
	"github.com/gorilla/mux"

	"github.com/iota-uz/ipr/pkg/application"
)

const (
	cacheImmutable = "public, max-age=31536000, immutable"
	cacheShort     = "public, max-age=3600"
	cacheNone      = "no-cache, no-store, must-revalidate"
)

// StaticFilesController serves every registered hashfs under /assets/.
// The first file system that has the requested file wins.
type StaticFilesController struct {
	fsInstances []*hashfs.FS
	production  bool
}

func NewStaticFilesController(fsInstances []*hashfs.FS, production bool) application.Controller {
	return &StaticFilesController{
		fsInstances: fsInstances,
		production:  production,
	}
}

func (s *StaticFilesController) Key() string {
	return "/assets"
}

func (s *StaticFilesController) Register(r *mux.Router) {
	handlers := make([]http.Handler, len(s.fsInstances))
	for i, fsys := range s.fsInstances {
		handlers[i] = hashfs.FileServer(fsys)
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/assets/")
		for i, fsys := range s.fsInstances {
			base, hash := hashfs.ParseName(name)
			f, err := fsys.Open(base)
			if err != nil {
				continue
			}
			_ = f.Close()
			s.setCacheHeaders(w, hash != "")
			http.StripPrefix("/assets", handlers[i]).ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
	r.PathPrefix("/assets/").Handler(handler)
}

func (s *StaticFilesController) setCacheHeaders(w http.ResponseWriter, hashed bool) {
	switch {
	case !s.production:
		w.Header().Set("Cache-Control", cacheNone)
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
	case hashed:
		w.Header().Set("Cache-Control", cacheImmutable)
	default:
		w.Header().Set("Cache-Control", cacheShort)
	}
}
