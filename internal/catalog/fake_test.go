package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

var errNotFound = errors.New("not found")

// fakeProvider serves canned responses keyed by path-like strings
type fakeProvider struct {
	mu       sync.Mutex
	lists    map[string]*tmdb.ListResponse
	movies   map[int]*tmdb.MovieDetails
	series   map[int]*tmdb.SeriesDetails
	seasons  map[string]*tmdb.SeasonDetails
	external map[string]*tmdb.ExternalIDs
	failing  map[string]bool
	calls    []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		lists:    map[string]*tmdb.ListResponse{},
		movies:   map[int]*tmdb.MovieDetails{},
		series:   map[int]*tmdb.SeriesDetails{},
		seasons:  map[string]*tmdb.SeasonDetails{},
		external: map[string]*tmdb.ExternalIDs{},
		failing:  map[string]bool{},
	}
}

func (f *fakeProvider) record(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if f.failing[key] {
		return fmt.Errorf("%s: upstream failure", key)
	}
	return nil
}

func (f *fakeProvider) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (f *fakeProvider) List(_ context.Context, path string) (*tmdb.ListResponse, error) {
	if err := f.record(path); err != nil {
		return nil, err
	}
	if l, ok := f.lists[path]; ok {
		return l, nil
	}
	return &tmdb.ListResponse{Page: 1}, nil
}

func (f *fakeProvider) Search(_ context.Context, kind types.MediaType, query string) (*tmdb.ListResponse, error) {
	key := "/search/" + string(kind) + "?" + query
	if err := f.record(key); err != nil {
		return nil, err
	}
	if l, ok := f.lists[key]; ok {
		return l, nil
	}
	return &tmdb.ListResponse{Page: 1}, nil
}

func (f *fakeProvider) Movie(_ context.Context, id int) (*tmdb.MovieDetails, error) {
	if err := f.record(fmt.Sprintf("/movie/%d", id)); err != nil {
		return nil, err
	}
	if m, ok := f.movies[id]; ok {
		return m, nil
	}
	return nil, errNotFound
}

func (f *fakeProvider) Series(_ context.Context, id int) (*tmdb.SeriesDetails, error) {
	if err := f.record(fmt.Sprintf("/tv/%d", id)); err != nil {
		return nil, err
	}
	if s, ok := f.series[id]; ok {
		return s, nil
	}
	return nil, errNotFound
}

func (f *fakeProvider) Season(_ context.Context, seriesID, season int) (*tmdb.SeasonDetails, error) {
	key := fmt.Sprintf("/tv/%d/season/%d", seriesID, season)
	if err := f.record(key); err != nil {
		return nil, err
	}
	if s, ok := f.seasons[key]; ok {
		return s, nil
	}
	return nil, errNotFound
}

func (f *fakeProvider) Credits(_ context.Context, kind types.MediaType, id int) (*tmdb.Credits, error) {
	if err := f.record(fmt.Sprintf("/%s/%d/credits", kind, id)); err != nil {
		return nil, err
	}
	return &tmdb.Credits{ID: id}, nil
}

func (f *fakeProvider) Videos(_ context.Context, kind types.MediaType, id int) (*tmdb.Videos, error) {
	if err := f.record(fmt.Sprintf("/%s/%d/videos", kind, id)); err != nil {
		return nil, err
	}
	return &tmdb.Videos{ID: id}, nil
}

func (f *fakeProvider) Similar(ctx context.Context, kind types.MediaType, id int) (*tmdb.ListResponse, error) {
	return f.List(ctx, fmt.Sprintf("/%s/%d/similar", kind, id))
}

func (f *fakeProvider) Recommendations(ctx context.Context, kind types.MediaType, id int) (*tmdb.ListResponse, error) {
	return f.List(ctx, fmt.Sprintf("/%s/%d/recommendations", kind, id))
}

func (f *fakeProvider) ExternalIDs(_ context.Context, kind types.MediaType, id int) (*tmdb.ExternalIDs, error) {
	key := fmt.Sprintf("/%s/%d/external_ids", kind, id)
	if err := f.record(key); err != nil {
		return nil, err
	}
	if e, ok := f.external[key]; ok {
		return e, nil
	}
	return &tmdb.ExternalIDs{ID: id}, nil
}

// fakeSaved is an in-memory saved list
type fakeSaved struct {
	ids []int
	err error
}

func (s *fakeSaved) Get(context.Context) ([]int, error) {
	return s.ids, s.err
}

func listOf(items ...tmdb.ListItem) *tmdb.ListResponse {
	return &tmdb.ListResponse{Page: 1, Results: items, TotalPages: 1, TotalResults: len(items)}
}

func movieEntry(id int, title string, rating float64) tmdb.ListItem {
	return tmdb.ListItem{
		ID:           id,
		MediaType:    "movie",
		Title:        title,
		PosterPath:   fmt.Sprintf("/p%d.jpg", id),
		BackdropPath: fmt.Sprintf("/b%d.jpg", id),
		VoteAverage:  rating,
	}
}
