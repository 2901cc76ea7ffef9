package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"

	"github.com/ethereum-optimism/infra/op-bdd/logging"
	"github.com/ethereum-optimism/infra/op-bdd/reporting"
)

// ReportsServer exposes the run directory tree over HTTP so rendered reports
// can be browsed without shelling into the host. "/latest/" always points at
// the most recently archived run.
type ReportsServer struct {
	dir    string
	store  *reporting.Store
	ctx    context.Context
	server *http.Server
}

func NewReportsServer(dir string) *ReportsServer {
	return &ReportsServer{
		dir:   dir,
		store: reporting.NewStore(dir),
	}
}

func (s *ReportsServer) Start(ctx context.Context, addr string) error {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	server := &http.Server{
		Handler: c.Handler(s.Handler()),
		Addr:    addr,
	}
	s.server = server
	s.ctx = ctx
	return s.server.ListenAndServe()
}

func (s *ReportsServer) Shutdown() error {
	return s.server.Shutdown(s.ctx)
}

// Handler builds the route table. Split out from Start so it can be driven
// without binding a listener.
func (s *ReportsServer) Handler() http.Handler {
	hdlr := http.NewServeMux()
	hdlr.Handle("/", http.FileServer(http.Dir(s.dir)))
	hdlr.HandleFunc("/latest", s.handleLatest)
	hdlr.HandleFunc("/latest/", s.handleLatest)
	return hdlr
}

// handleLatest redirects to the same path under the newest archived run
// directory, defaulting to the HTML report.
func (s *ReportsServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.LatestRun()
	if err != nil {
		log.Warn("latest report requested but none archived", "err", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/latest")
	if rest == "" || rest == "/" {
		rest = "/results.html"
	}
	http.Redirect(w, r, "/"+logging.RunDirectoryPrefix+run.RunID+rest, http.StatusTemporaryRedirect)
}
