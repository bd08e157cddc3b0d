package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/marquee/internal/batch"
	"github.com/justchokingaround/marquee/internal/config"
	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

func testFeeds() config.FeedsConfig {
	return config.FeedsConfig{
		All: config.FeedSet{
			Hero: config.Feed{Title: "Hero", Path: "/trending/all/day"},
			Priority: []config.Feed{
				{Title: "Trending", Path: "/trending/all/week"},
				{Title: "Popular Movies", Path: "/movie/popular", Kind: "movie"},
				{Title: "Popular TV", Path: "/tv/popular", Kind: "tv"},
			},
			Lazy: []config.Feed{
				{Title: "Top Rated", Path: "/movie/top_rated", Kind: "movie"},
				{Title: "Upcoming", Path: "/movie/upcoming", Kind: "movie"},
			},
		},
		Movie: config.FeedSet{
			Hero: config.Feed{Title: "Hero", Path: "/trending/movie/day", Kind: "movie"},
			Priority: []config.Feed{
				{Title: "Trending Movies", Path: "/trending/movie/week", Kind: "movie"},
				{Title: "Popular", Path: "/movie/popular", Kind: "movie"},
			},
			Lazy: []config.Feed{
				{Title: "Top Rated", Path: "/movie/top_rated", Kind: "movie"},
			},
		},
	}
}

func newTestAggregator(provider *fakeProvider, saved SavedList) *Aggregator {
	return NewAggregator(provider, saved, Options{Feeds: testFeeds(), PageSize: 20})
}

func titles(categories []types.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Title)
	}
	return out
}

func TestFetchContent(t *testing.T) {
	t.Run("all tab inserts My List after the first priority category", func(t *testing.T) {
		provider := newFakeProvider()
		provider.lists["/trending/all/day"] = listOf(movieEntry(1, "Low", 4), movieEntry(2, "High", 8))
		provider.lists["/trending/all/week"] = listOf(movieEntry(3, "T", 7))
		provider.movies[42] = &tmdb.MovieDetails{ID: 42, Title: "Saved", PosterPath: "/p", BackdropPath: "/b"}

		agg := newTestAggregator(provider, &fakeSaved{ids: []int{42}})
		home, err := agg.FetchContent(context.Background(), types.MediaTypeAll)

		require.NoError(t, err)
		require.NotNil(t, home.Hero)
		assert.Equal(t, 2, home.Hero.ID)
		assert.Equal(t, []string{"Trending", MyListTitle, "Popular Movies", "Popular TV", "Top Rated", "Upcoming"}, titles(home.Categories))
		assert.Equal(t, MyListTitle, home.Categories[1].Title)
		require.Len(t, home.Categories[1].Items, 1)
		assert.Equal(t, 42, home.Categories[1].Items[0].ID)
	})

	t.Run("lazy feeds become loading placeholders", func(t *testing.T) {
		agg := newTestAggregator(newFakeProvider(), nil)
		home, err := agg.FetchContent(context.Background(), types.MediaTypeAll)

		require.NoError(t, err)
		last := home.Categories[len(home.Categories)-2:]
		for _, c := range last {
			assert.True(t, c.Loading)
			assert.NotNil(t, c.Items)
			assert.Empty(t, c.Items)
		}
		for _, c := range home.Categories[:len(home.Categories)-2] {
			assert.False(t, c.Loading)
		}
	})

	t.Run("movie tab never shows My List", func(t *testing.T) {
		provider := newFakeProvider()
		provider.movies[42] = &tmdb.MovieDetails{ID: 42, Title: "Saved"}

		agg := newTestAggregator(provider, &fakeSaved{ids: []int{42}})
		home, err := agg.FetchContent(context.Background(), types.MediaTypeMovie)

		require.NoError(t, err)
		assert.NotContains(t, titles(home.Categories), MyListTitle)
		assert.Equal(t, []string{"Trending Movies", "Popular", "Top Rated"}, titles(home.Categories))
	})

	t.Run("no My List when nothing resolves", func(t *testing.T) {
		agg := newTestAggregator(newFakeProvider(), &fakeSaved{ids: []int{7}})
		home, err := agg.FetchContent(context.Background(), types.MediaTypeAll)

		require.NoError(t, err)
		assert.NotContains(t, titles(home.Categories), MyListTitle)
	})

	t.Run("unreadable saved list degrades to empty", func(t *testing.T) {
		agg := newTestAggregator(newFakeProvider(), &fakeSaved{err: errors.New("store down")})
		home, err := agg.FetchContent(context.Background(), types.MediaTypeAll)

		require.NoError(t, err)
		assert.NotContains(t, titles(home.Categories), MyListTitle)
	})

	t.Run("any failing priority feed fails the whole call", func(t *testing.T) {
		provider := newFakeProvider()
		provider.failing["/tv/popular"] = true

		agg := newTestAggregator(provider, nil)
		home, err := agg.FetchContent(context.Background(), types.MediaTypeAll)

		require.Error(t, err)
		assert.Nil(t, home)
		var aggErr *batch.AggregationError
		assert.True(t, errors.As(err, &aggErr))
	})

	t.Run("failing hero feed fails the whole call", func(t *testing.T) {
		provider := newFakeProvider()
		provider.failing["/trending/all/day"] = true

		_, err := newTestAggregator(provider, nil).FetchContent(context.Background(), types.MediaTypeAll)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "hero feed")
	})

	t.Run("priority feeds are filtered and use the feed kind", func(t *testing.T) {
		provider := newFakeProvider()
		provider.lists["/movie/popular"] = listOf(
			tmdb.ListItem{ID: 1, Title: "Ok", PosterPath: "/p", BackdropPath: "/b"},
			tmdb.ListItem{ID: 2, Title: "NoBackdrop", PosterPath: "/p"},
		)

		home, err := newTestAggregator(provider, nil).FetchContent(context.Background(), types.MediaTypeAll)

		require.NoError(t, err)
		popular := home.Categories[1]
		assert.Equal(t, "Popular Movies", popular.Title)
		require.Len(t, popular.Items, 1)
		assert.Equal(t, types.MediaTypeMovie, popular.Items[0].Kind)
	})

	t.Run("unknown tab kind", func(t *testing.T) {
		_, err := newTestAggregator(newFakeProvider(), nil).FetchContent(context.Background(), "anime")
		assert.Error(t, err)
	})
}

func TestAssembleCategories(t *testing.T) {
	priority := []types.Category{types.Resolved("A", nil), types.Resolved("B", nil)}
	saved := []types.CatalogItem{{ID: 1, Title: "S"}}
	lazy := []config.Feed{{Title: "L"}}

	t.Run("all with saved items", func(t *testing.T) {
		got := AssembleCategories(types.MediaTypeAll, priority, saved, lazy)
		assert.Equal(t, []string{"A", MyListTitle, "B", "L"}, titles(got))
	})

	t.Run("tv with saved items", func(t *testing.T) {
		got := AssembleCategories(types.MediaTypeTV, priority, saved, lazy)
		assert.Equal(t, []string{"A", "B", "L"}, titles(got))
	})

	t.Run("no priority categories", func(t *testing.T) {
		got := AssembleCategories(types.MediaTypeAll, nil, saved, lazy)
		assert.Equal(t, []string{MyListTitle, "L"}, titles(got))
	})
}

func TestFetchLazyCategories(t *testing.T) {
	t.Run("returns resolved categories in configured order", func(t *testing.T) {
		provider := newFakeProvider()
		provider.lists["/movie/upcoming"] = listOf(movieEntry(9, "Soon", 5))

		got, err := newTestAggregator(provider, nil).FetchLazyCategories(context.Background(), types.MediaTypeAll)

		require.NoError(t, err)
		assert.Equal(t, []string{"Top Rated", "Upcoming"}, titles(got))
		for _, c := range got {
			assert.False(t, c.Loading)
		}
		assert.Len(t, got[1].Items, 1)
	})

	t.Run("fails as a unit", func(t *testing.T) {
		provider := newFakeProvider()
		provider.failing["/movie/top_rated"] = true

		got, err := newTestAggregator(provider, nil).FetchLazyCategories(context.Background(), types.MediaTypeAll)

		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestSpliceLazy(t *testing.T) {
	home := []types.Category{
		types.Resolved("Trending", nil),
		types.Placeholder("Top Rated"),
		types.Placeholder("Upcoming"),
	}
	resolved := []types.Category{
		types.Resolved("Upcoming", []types.CatalogItem{{ID: 1}}),
		types.Resolved("Trending", []types.CatalogItem{{ID: 2}}),
	}

	got := SpliceLazy(home, resolved)

	assert.Equal(t, []string{"Trending", "Top Rated", "Upcoming"}, titles(got))
	assert.Empty(t, got[0].Items, "resolved rows are not replaced")
	assert.True(t, got[1].Loading)
	assert.False(t, got[2].Loading)
	assert.Len(t, got[2].Items, 1)
	assert.True(t, home[2].Loading, "input is not mutated")
}

func TestSearch(t *testing.T) {
	provider := newFakeProvider()
	provider.lists["/search/movie?dune"] = listOf(
		tmdb.ListItem{ID: 1, Title: "The Dunwich Horror", PosterPath: "/p", BackdropPath: "/b"},
		tmdb.ListItem{ID: 2, Title: "Dune", PosterPath: "/p", BackdropPath: "/b"},
		tmdb.ListItem{ID: 3, Title: "Arrival", PosterPath: "/p", BackdropPath: "/b"},
		tmdb.ListItem{ID: 4, Title: "Dune: Part Two"},
	)

	got, err := newTestAggregator(provider, nil).Search(context.Background(), types.MediaTypeMovie, "dune")

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[2].ID, "non-matching results keep provider order at the end")
	for _, it := range got {
		assert.Equal(t, types.MediaTypeMovie, it.Kind)
	}
}
