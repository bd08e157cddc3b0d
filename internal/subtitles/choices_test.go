package subtitles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/marquee/internal/config"
	"github.com/justchokingaround/marquee/internal/database"
	"github.com/justchokingaround/marquee/pkg/types"
)

func frenchCandidates() []Candidate {
	return []Candidate{
		{ReleaseName: "Film.FR.HDTV", DownloadLink: "f/hdtv"},
		{ReleaseName: "Film.FR.WEBRip", DownloadLink: "f/webrip"},
		{ReleaseName: "Film.FR.DVDRip", DownloadLink: "f/dvdrip"},
	}
}

func newChoiceService(t *testing.T) (*Service, *DBChoices) {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	store := NewDBChoices(db)
	src := &fakeSource{
		candidates: threeCandidates(),
		byLanguage: map[string][]Candidate{"fre": frenchCandidates()},
	}
	return newTestService(src).WithChoices(store), store
}

func intPtr(i int) *int { return &i }

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	movie := Params{ID: 550, Kind: types.MediaTypeMovie}

	t.Run("finds the remembered release after the sort changes", func(t *testing.T) {
		svc, _ := newChoiceService(t)

		popular := movie
		popular.Sort = SortPopular
		first := svc.Resolve(ctx, popular, intPtr(2))
		require.True(t, first.Success)
		require.Equal(t, "Movie.BluRay", first.ReleaseName)

		smart := movie
		smart.Sort = SortSmart
		again := svc.Resolve(ctx, smart, nil)

		require.True(t, again.Success)
		assert.Equal(t, "Movie.BluRay", again.ReleaseName)
		assert.Equal(t, 1, again.CurrentIndex)
	})

	t.Run("ignores the stored index for another language", func(t *testing.T) {
		svc, _ := newChoiceService(t)

		eng := movie
		eng.Language, eng.Sort = "eng", SortPopular
		require.True(t, svc.Resolve(ctx, eng, intPtr(2)).Success)

		fre := movie
		fre.Language, fre.Sort = "fre", SortSmart
		res := svc.Resolve(ctx, fre, nil)

		require.True(t, res.Success)
		assert.Equal(t, 0, res.CurrentIndex)
		assert.Equal(t, "Film.FR.WEBRip", res.ReleaseName)
	})

	t.Run("falls back to the index when the release is gone", func(t *testing.T) {
		svc, store := newChoiceService(t)
		params := svc.withDefaults(movie)
		require.NoError(t, store.Save(ctx, params, Choice{Index: 2, ReleaseName: "Movie.Pulled", Language: "eng", Sort: SortSmart}))

		res := svc.Resolve(ctx, movie, nil)

		require.True(t, res.Success)
		assert.Equal(t, 2, res.CurrentIndex)
	})

	t.Run("explicit index is used and remembered", func(t *testing.T) {
		svc, store := newChoiceService(t)

		res := svc.Resolve(ctx, movie, intPtr(99))
		require.True(t, res.Success)
		assert.Equal(t, 2, res.CurrentIndex)

		choice, ok, err := store.Load(ctx, svc.withDefaults(movie))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Choice{Index: 2, ReleaseName: res.ReleaseName, Language: "eng", Sort: SortSmart}, choice)
	})

	t.Run("episodes are remembered separately", func(t *testing.T) {
		svc, _ := newChoiceService(t)
		ep2 := Params{ID: 1399, Kind: types.MediaTypeTV, Season: 1, Episode: 2}
		ep3 := Params{ID: 1399, Kind: types.MediaTypeTV, Season: 1, Episode: 3}

		require.True(t, svc.Resolve(ctx, ep2, intPtr(2)).Success)

		assert.Equal(t, 2, svc.Resolve(ctx, ep2, nil).CurrentIndex)
		assert.Equal(t, 0, svc.Resolve(ctx, ep3, nil).CurrentIndex)
	})

	t.Run("forget clears the title", func(t *testing.T) {
		svc, _ := newChoiceService(t)
		require.True(t, svc.Resolve(ctx, movie, intPtr(2)).Success)

		require.NoError(t, svc.Forget(ctx, movie))

		assert.Equal(t, 0, svc.Resolve(ctx, movie, nil).CurrentIndex)
	})

	t.Run("failed lookups are not remembered", func(t *testing.T) {
		svc, store := newChoiceService(t)

		res := svc.Resolve(ctx, Params{ID: 42, Kind: types.MediaTypeMovie}, intPtr(1))
		require.False(t, res.Success)

		_, ok, err := store.Load(ctx, svc.withDefaults(Params{ID: 42}))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("without a store the top candidate is used", func(t *testing.T) {
		svc := newTestService(&fakeSource{candidates: threeCandidates()})

		res := svc.Resolve(ctx, movie, nil)
		require.True(t, res.Success)
		assert.Equal(t, 0, res.CurrentIndex)
		assert.NoError(t, svc.Forget(ctx, movie))
	})

	t.Run("unreadable store falls back to the top candidate", func(t *testing.T) {
		svc := newTestService(&fakeSource{candidates: threeCandidates()}).WithChoices(brokenChoices{})

		res := svc.Resolve(ctx, movie, nil)
		require.True(t, res.Success)
		assert.Equal(t, 0, res.CurrentIndex)
		assert.Error(t, svc.Forget(ctx, movie))
	})
}

type brokenChoices struct{}

func (brokenChoices) Load(context.Context, Params) (Choice, bool, error) {
	return Choice{}, false, errors.New("database is locked")
}

func (brokenChoices) Save(context.Context, Params, Choice) error {
	return errors.New("database is locked")
}

func (brokenChoices) Forget(context.Context, Params) error {
	return errors.New("database is locked")
}

func TestRecall(t *testing.T) {
	cands := threeCandidates()
	params := Params{Language: "eng", Sort: SortSmart}

	tests := []struct {
		name   string
		choice Choice
		want   int
	}{
		{"by release name", Choice{Index: 0, ReleaseName: "Movie.BluRay", Language: "fre", Sort: SortPopular}, 2},
		{"stored index for same ranking", Choice{Index: 1, ReleaseName: "Gone", Language: "eng", Sort: SortSmart}, 1},
		{"stored index is clamped", Choice{Index: 9, Language: "eng", Sort: SortSmart}, 2},
		{"other language", Choice{Index: 2, ReleaseName: "Gone", Language: "fre", Sort: SortSmart}, 0},
		{"other sort", Choice{Index: 2, Language: "eng", Sort: SortRecent}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recall(tt.choice, params, cands))
		})
	}
}
