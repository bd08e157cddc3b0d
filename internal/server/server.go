// Package server exposes the aggregation pipeline over a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justchokingaround/marquee/internal/catalog"
	"github.com/justchokingaround/marquee/internal/mylist"
	"github.com/justchokingaround/marquee/internal/subtitles"
	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

// Catalog is the content side of the pipeline. *catalog.Aggregator satisfies it.
type Catalog interface {
	FetchContent(ctx context.Context, kind types.MediaType) (*types.HomeModel, error)
	FetchLazyCategories(ctx context.Context, kind types.MediaType) ([]types.Category, error)
	FetchDetails(ctx context.Context, id int, kind types.MediaType) (*catalog.DetailBundle, error)
	FetchSeasonDetails(ctx context.Context, seriesID, season int) (*tmdb.SeasonDetails, error)
	Search(ctx context.Context, kind types.MediaType, query string) ([]types.CatalogItem, error)
}

// Subtitles resolves subtitle tracks. *subtitles.Service satisfies it.
type Subtitles interface {
	// Resolve fetches the candidate at index, or the remembered one when index is nil
	Resolve(ctx context.Context, params subtitles.Params, index *int) types.SubtitleResult
	Candidates(ctx context.Context, params subtitles.Params) ([]subtitles.Candidate, error)
	Forget(ctx context.Context, params subtitles.Params) error
}

var (
	_ Catalog   = (*catalog.Aggregator)(nil)
	_ Subtitles = (*subtitles.Service)(nil)
)

// Deps are the collaborators the API serves
type Deps struct {
	Catalog   Catalog
	Subtitles Subtitles
	MyList    mylist.Store
	Logger    *slog.Logger
}

// Server is the HTTP front end
type Server struct {
	catalog   Catalog
	subtitles Subtitles
	mylist    mylist.Store
	logger    *slog.Logger
	router    chi.Router
}

// New builds a server and its routes
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		catalog:   deps.Catalog,
		subtitles: deps.Subtitles,
		mylist:    deps.MyList,
		logger:    logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(Recoverer(s.logger))
	r.Use(RequestID)
	r.Use(Observe(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/home/{kind}", s.handleHome)
		r.Get("/home/{kind}/lazy", s.handleLazy)
		r.Get("/search", s.handleSearch)
		r.Get("/titles/{kind}/{id}", s.handleDetails)
		r.Get("/tv/{id}/season/{season}", s.handleSeason)
		r.Get("/subtitles/{kind}/{id}", s.handleSubtitles)
		r.Get("/subtitles/{kind}/{id}/candidates", s.handleCandidates)
		r.Delete("/subtitles/{kind}/{id}/choice", s.handleForgetSubtitles)

		r.Route("/mylist", func(r chi.Router) {
			r.Get("/", s.handleMyList)
			r.Put("/{id}", s.handleMyListAdd)
			r.Delete("/{id}", s.handleMyListRemove)
			r.Post("/{id}/toggle", s.handleMyListToggle)
		})
	})

	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown failed: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
