package catalog

import (
	"context"
	"log/slog"
	"slices"

	"github.com/justchokingaround/marquee/internal/batch"
	"github.com/justchokingaround/marquee/internal/result"
	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

// ResolveSaved expands saved identifiers into catalog items. Each id is
// looked up as a movie, or else as a series; ids that resolve as neither are
// dropped. The call itself never fails. Items come back in input order.
func ResolveSaved(ctx context.Context, provider Provider, ids []int, logger *slog.Logger) []types.CatalogItem {
	if len(ids) == 0 {
		return []types.CatalogItem{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	fns := make([]func(context.Context) (types.CatalogItem, error), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, func(ctx context.Context) (types.CatalogItem, error) {
			return resolveOne(ctx, provider, id).Unwrap()
		})
	}

	items, err := batch.Settle(ctx, "saved_items", fns...)
	if err != nil {
		logger.Debug("some saved items could not be resolved", "requested", len(ids), "resolved", len(items), "error", err)
	}

	position := make(map[int]int, len(ids))
	for i, id := range ids {
		if _, seen := position[id]; !seen {
			position[id] = i
		}
	}
	slices.SortStableFunc(items, func(a, b types.CatalogItem) int {
		return position[a.ID] - position[b.ID]
	})

	return items
}

// resolveOne tries the movie endpoint first and falls back to the series
// endpoint; the movie error is never surfaced.
func resolveOne(ctx context.Context, provider Provider, id int) result.Result[types.CatalogItem] {
	return result.From[types.CatalogItem](asMovie(provider.Movie(ctx, id))).
		OrElse(func() result.Result[types.CatalogItem] {
			return result.From[types.CatalogItem](asSeries(provider.Series(ctx, id)))
		})
}

func asMovie(m *tmdb.MovieDetails, err error) (types.CatalogItem, error) {
	if err != nil {
		return types.CatalogItem{}, err
	}
	return types.CatalogItem{
		ID:           m.ID,
		Kind:         types.MediaTypeMovie,
		Title:        m.Title,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		Rating:       m.VoteAverage,
		Raw:          m.Raw,
	}, nil
}

func asSeries(s *tmdb.SeriesDetails, err error) (types.CatalogItem, error) {
	if err != nil {
		return types.CatalogItem{}, err
	}
	return types.CatalogItem{
		ID:           s.ID,
		Kind:         types.MediaTypeTV,
		Title:        s.Name,
		PosterPath:   s.PosterPath,
		BackdropPath: s.BackdropPath,
		Rating:       s.VoteAverage,
		Raw:          s.Raw,
	}, nil
}
