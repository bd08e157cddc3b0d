package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestFetchDetails(t *testing.T) {
	t.Run("movie bundle issues all five requests", func(t *testing.T) {
		provider := newFakeProvider()
		provider.movies[550] = &tmdb.MovieDetails{ID: 550, Title: "Fight Club"}

		bundle, err := newTestAggregator(provider, nil).FetchDetails(context.Background(), 550, types.MediaTypeMovie)

		require.NoError(t, err)
		assert.Equal(t, "Fight Club", bundle.Title())
		assert.Nil(t, bundle.Series)
		assert.NotNil(t, bundle.Credits)
		assert.NotNil(t, bundle.Videos)
		assert.NotNil(t, bundle.Similar)
		assert.NotNil(t, bundle.Recommendations)
		for _, path := range []string{"/movie/550", "/movie/550/credits", "/movie/550/videos", "/movie/550/similar", "/movie/550/recommendations"} {
			assert.True(t, provider.called(path), path)
		}
	})

	t.Run("series bundle", func(t *testing.T) {
		provider := newFakeProvider()
		provider.series[1399] = &tmdb.SeriesDetails{ID: 1399, Name: "Game of Thrones"}

		bundle, err := newTestAggregator(provider, nil).FetchDetails(context.Background(), 1399, types.MediaTypeTV)

		require.NoError(t, err)
		assert.Nil(t, bundle.Movie)
		assert.Equal(t, "Game of Thrones", bundle.Title())
		assert.True(t, provider.called("/tv/1399/recommendations"))
	})

	t.Run("any failing facet fails the bundle", func(t *testing.T) {
		provider := newFakeProvider()
		provider.movies[1] = &tmdb.MovieDetails{ID: 1, Title: "X"}
		provider.failing["/movie/1/videos"] = true

		bundle, err := newTestAggregator(provider, nil).FetchDetails(context.Background(), 1, types.MediaTypeMovie)

		require.Error(t, err)
		assert.Nil(t, bundle)
	})

	t.Run("rejects the all kind", func(t *testing.T) {
		_, err := newTestAggregator(newFakeProvider(), nil).FetchDetails(context.Background(), 1, types.MediaTypeAll)
		assert.Error(t, err)
	})
}

func TestFetchSeasonDetails(t *testing.T) {
	provider := newFakeProvider()
	provider.seasons["/tv/5/season/2"] = &tmdb.SeasonDetails{SeasonNumber: 2, Episodes: []tmdb.Episode{{EpisodeNumber: 1}}}
	agg := newTestAggregator(provider, nil)

	season, err := agg.FetchSeasonDetails(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, season.SeasonNumber)

	_, err = agg.FetchSeasonDetails(context.Background(), 5, 3)
	assert.Error(t, err)
}

func TestResolveExternalID(t *testing.T) {
	provider := newFakeProvider()
	provider.external["/movie/550/external_ids"] = &tmdb.ExternalIDs{ID: 550, IMDBID: strPtr("tt0137523")}
	provider.external["/tv/3/external_ids"] = &tmdb.ExternalIDs{ID: 3}
	provider.failing["/tv/4/external_ids"] = true
	agg := newTestAggregator(provider, nil)
	ctx := context.Background()

	assert.Equal(t, "tt0137523", agg.ResolveExternalID(ctx, 550, types.MediaTypeMovie))
	assert.Equal(t, "", agg.ResolveExternalID(ctx, 3, types.MediaTypeTV), "missing field")
	assert.Equal(t, "", agg.ResolveExternalID(ctx, 4, types.MediaTypeTV), "request failure")
}
