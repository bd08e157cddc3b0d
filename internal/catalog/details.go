package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/justchokingaround/marquee/internal/batch"
	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

// DetailBundle is everything the detail screen shows for one title.
// Exactly one of Movie and Series is set, according to Kind.
type DetailBundle struct {
	Kind            types.MediaType     `json:"media_type"`
	Movie           *tmdb.MovieDetails  `json:"movie,omitempty"`
	Series          *tmdb.SeriesDetails `json:"series,omitempty"`
	Credits         *tmdb.Credits       `json:"credits"`
	Videos          *tmdb.Videos        `json:"videos"`
	Similar         *tmdb.ListResponse  `json:"similar"`
	Recommendations *tmdb.ListResponse  `json:"recommendations"`
}

// Title returns the movie title or series name
func (b *DetailBundle) Title() string {
	switch {
	case b.Movie != nil:
		return b.Movie.Title
	case b.Series != nil:
		return b.Series.Name
	default:
		return ""
	}
}

// FetchDetails fetches the core record and its four facets concurrently.
// Any failure fails the whole bundle.
func (a *Aggregator) FetchDetails(ctx context.Context, id int, kind types.MediaType) (*DetailBundle, error) {
	if !kind.IsTitleKind() {
		return nil, fmt.Errorf("unsupported media type %q", kind)
	}

	bundle := &DetailBundle{Kind: kind}

	core := func(ctx context.Context) error {
		if kind == types.MediaTypeMovie {
			movie, err := a.provider.Movie(ctx, id)
			bundle.Movie = movie
			return err
		}
		series, err := a.provider.Series(ctx, id)
		bundle.Series = series
		return err
	}

	err := batch.All(ctx, "details_"+string(kind), core,
		func(ctx context.Context) (err error) {
			bundle.Credits, err = a.provider.Credits(ctx, kind, id)
			return err
		},
		func(ctx context.Context) (err error) {
			bundle.Videos, err = a.provider.Videos(ctx, kind, id)
			return err
		},
		func(ctx context.Context) (err error) {
			bundle.Similar, err = a.provider.Similar(ctx, kind, id)
			return err
		},
		func(ctx context.Context) (err error) {
			bundle.Recommendations, err = a.provider.Recommendations(ctx, kind, id)
			return err
		},
	)
	if err != nil {
		a.logger.Error("details fetch failed", "id", id, "kind", kind, "error", err)
		return nil, err
	}

	return bundle, nil
}

// FetchSeasonDetails fetches a single season of a series
func (a *Aggregator) FetchSeasonDetails(ctx context.Context, seriesID, season int) (*tmdb.SeasonDetails, error) {
	return a.provider.Season(ctx, seriesID, season)
}

// ResolveExternalID returns the IMDb identifier for a title, or "" when the
// provider has none or the lookup fails.
func (a *Aggregator) ResolveExternalID(ctx context.Context, id int, kind types.MediaType) string {
	ids, err := a.provider.ExternalIDs(ctx, kind, id)
	if err != nil {
		a.logger.Debug("external id lookup failed", "id", id, "kind", kind, "error", err)
		return ""
	}
	if ids.IMDBID == nil {
		return ""
	}
	return strings.TrimSpace(*ids.IMDBID)
}
