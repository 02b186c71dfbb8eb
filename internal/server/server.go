package server

import (
	"html/template"
	"net/http"

	"github.com/elpatron68/mission-control/internal/config"
	"github.com/elpatron68/mission-control/internal/taskstore"
	"github.com/elpatron68/mission-control/internal/ui"
	"github.com/elpatron68/mission-control/internal/workspace"
)

type Server struct {
	cfg       *config.Config
	store     *taskstore.Store
	saves     *ui.SaveLogStore
	mux       *http.ServeMux
	layoutTpl *template.Template
	root      http.Dir
	files     http.Handler
}

func NewServer(root string) *Server {
	cfg := config.Default()
	cfg.Workspace = root
	return NewServerWithConfig(cfg)
}

func NewServerWithConfig(cfg *config.Config) *Server {
	s := &Server{
		cfg:   cfg,
		store: taskstore.New(cfg.DataPath()),
		saves: ui.NewSaveLogStore(cfg.Board.RecentSaves),
		mux:   http.NewServeMux(),
		root:  http.Dir(cfg.Workspace),
	}
	s.files = http.FileServer(s.root)
	s.layoutTpl = template.Must(template.New("layout").Funcs(template.FuncMap{
		"fmtBytes": fmtBytes,
	}).Parse(layoutHTML))
	s.routes()
	return s
}

func (s *Server) Store() *taskstore.Store { return s.store }

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/tasks", s.handleGetTasks)
	s.mux.HandleFunc("POST /api/tasks", s.handlePostTasks)
	s.mux.HandleFunc("OPTIONS /api/tasks", s.handlePreflight)
	// every other method/path under /api is unknown; /api itself is
	// registered so it does not redirect to /api/
	notFound := func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found")
	}
	s.mux.HandleFunc("/api", notFound)
	s.mux.HandleFunc("/api/", notFound)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("GET /board", s.handleBoard)

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		s.serveStatic(w, r, "/"+workspace.IndexFile)
	})
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		s.serveStatic(w, r, r.URL.Path)
	})
}

// Handler returns the routing table wrapped in the request ID and access log
// middleware.
func (s *Server) Handler() http.Handler {
	return withRequestID(withAccessLog(s.mux))
}
