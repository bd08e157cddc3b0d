package catalog

import (
	"context"

	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

// Provider is the subset of the metadata API the aggregators use.
// *tmdb.Client satisfies it.
type Provider interface {
	List(ctx context.Context, path string) (*tmdb.ListResponse, error)
	Search(ctx context.Context, kind types.MediaType, query string) (*tmdb.ListResponse, error)
	Movie(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	Series(ctx context.Context, id int) (*tmdb.SeriesDetails, error)
	Season(ctx context.Context, seriesID, season int) (*tmdb.SeasonDetails, error)
	Credits(ctx context.Context, kind types.MediaType, id int) (*tmdb.Credits, error)
	Videos(ctx context.Context, kind types.MediaType, id int) (*tmdb.Videos, error)
	Similar(ctx context.Context, kind types.MediaType, id int) (*tmdb.ListResponse, error)
	Recommendations(ctx context.Context, kind types.MediaType, id int) (*tmdb.ListResponse, error)
	ExternalIDs(ctx context.Context, kind types.MediaType, id int) (*tmdb.ExternalIDs, error)
}

// SavedList reads the user's saved item identifiers
type SavedList interface {
	Get(ctx context.Context) ([]int, error)
}

var _ Provider = (*tmdb.Client)(nil)
