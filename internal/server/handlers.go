package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/justchokingaround/marquee/internal/catalog"
	"github.com/justchokingaround/marquee/internal/mylist"
	"github.com/justchokingaround/marquee/internal/subtitles"
	"github.com/justchokingaround/marquee/pkg/types"
)

func kindParam(r *http.Request, titleOnly bool) (types.MediaType, error) {
	raw := chi.URLParam(r, "kind")
	kind, ok := types.ParseMediaType(raw)
	if !ok || (titleOnly && !kind.IsTitleKind()) {
		return "", badRequest{fmt.Sprintf("invalid media type %q", raw)}
	}
	return kind, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest{fmt.Sprintf("invalid %s %q", name, raw)}
	}
	return n, nil
}

// queryInt parses an optional query parameter; ok is false when absent
func queryInt(r *http.Request, name string) (n int, ok bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, badRequest{fmt.Sprintf("invalid %s %q", name, raw)}
	}
	return n, true, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	home, err := s.catalog.FetchContent(r.Context(), kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("lazy") == "1" {
		lazy, err := s.catalog.FetchLazyCategories(r.Context(), kind)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		home.Categories = catalog.SpliceLazy(home.Categories, lazy)
	}

	writeJSON(w, http.StatusOK, home)
}

func (s *Server) handleLazy(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	categories, err := s.catalog.FetchLazyCategories(r.Context(), kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, r, badRequest{"missing query parameter q"})
		return
	}
	kind, ok := types.ParseMediaType(r.URL.Query().Get("kind"))
	if !ok {
		s.writeError(w, r, badRequest{fmt.Sprintf("invalid media type %q", r.URL.Query().Get("kind"))})
		return
	}

	items, err := s.catalog.Search(r.Context(), kind, query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	bundle, err := s.catalog.FetchDetails(r.Context(), id, kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	season, err := intParam(r, "season")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	details, err := s.catalog.FetchSeasonDetails(r.Context(), id, season)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) subtitleParams(r *http.Request) (subtitles.Params, error) {
	kind, err := kindParam(r, true)
	if err != nil {
		return subtitles.Params{}, err
	}
	id, err := intParam(r, "id")
	if err != nil {
		return subtitles.Params{}, err
	}
	season, _, err := queryInt(r, "season")
	if err != nil {
		return subtitles.Params{}, err
	}
	episode, _, err := queryInt(r, "episode")
	if err != nil {
		return subtitles.Params{}, err
	}

	params := subtitles.Params{
		ID:       id,
		Kind:     kind,
		Season:   season,
		Episode:  episode,
		Language: r.URL.Query().Get("lang"),
	}
	if sort := r.URL.Query().Get("sort"); sort != "" {
		params.Sort = subtitles.ParseSortStrategy(sort)
	}
	return params, nil
}

// handleSubtitles always answers 200; lookup failures are reported in the
// body. Without an explicit index the previously chosen release is reused.
func (s *Server) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	params, err := s.subtitleParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	index, explicit, err := queryInt(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var pick *int
	if explicit {
		pick = &index
	}
	writeJSON(w, http.StatusOK, s.subtitles.Resolve(r.Context(), params, pick))
}

func (s *Server) handleForgetSubtitles(w http.ResponseWriter, r *http.Request) {
	params, err := s.subtitleParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.subtitles.Forget(r.Context(), params); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	params, err := s.subtitleParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	candidates, err := s.subtitles.Candidates(r.Context(), params)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"candidates": []subtitles.Candidate{},
			"error":      subtitles.Message(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}

func (s *Server) handleMyList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.mylist.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) handleMyListAdd(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ids, err := mylist.Add(r.Context(), s.mylist, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) handleMyListRemove(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ids, err := mylist.Remove(r.Context(), s.mylist, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) handleMyListToggle(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	saved, err := mylist.Toggle(r.Context(), s.mylist, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "saved": saved})
}
