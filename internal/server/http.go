// Package server exposes the catalog session as a local JSON API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/notify"
)

type Options struct {
	Catalog *catalog.Session
	// Reload re-runs the catalog pipeline; used by POST /v1/reload and the
	// periodic refresh.
	Reload func(context.Context) error
	// Token enables bearer auth on /v1 when non-empty.
	Token        string
	RefreshEvery time.Duration
	Log          *zap.Logger
}

// Server serves the catalog over HTTP.
type Server struct {
	cat     *catalog.Session
	reload  func(context.Context) error
	token   string
	refresh notify.Scheduler
	log     *zap.Logger
}

func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	reload := opts.Reload
	if reload == nil {
		reload = opts.Catalog.Load
	}
	log = log.Named("http")
	return &Server{
		cat:     opts.Catalog,
		reload:  reload,
		token:   strings.TrimSpace(opts.Token),
		refresh: notify.Scheduler{Every: opts.RefreshEvery, Log: log},
		log:     log,
	}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(s.auth)
		v1.Get("/dogs", s.listDogs)
		v1.Route("/dogs/{id}", func(d chi.Router) {
			d.Get("/", s.getDog)
			d.Delete("/", s.removeDog)
			d.Post("/favorite", s.toggleFavorite)
			d.Post("/seen", s.markSeen)
		})
		v1.Get("/facets", s.facets)
		v1.Get("/stats", s.stats)
		v1.Route("/sorting", func(sr chi.Router) {
			sr.Get("/", s.getSorting)
			sr.Post("/", s.addSortKey)
			sr.Delete("/", s.resetSorting)
			sr.Put("/{key}", s.updateSortKey)
			sr.Delete("/{key}", s.removeSortKey)
		})
		v1.Post("/reload", s.reloadCatalog)
	})
	return r
}

// Run serves on addr and refreshes the catalog on schedule until ctx ends.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.refresh.Run(ctx, s.reload)
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()), zap.Duration("refresh", s.refresh.Every))
	if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
