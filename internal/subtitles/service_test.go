package subtitles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/marquee/pkg/types"
)

type fakeResolver struct {
	ids map[int]string
}

func (f fakeResolver) ResolveExternalID(_ context.Context, id int, _ types.MediaType) string {
	return f.ids[id]
}

type fakeSource struct {
	candidates []Candidate
	byLanguage map[string][]Candidate
	texts      map[string]string
	failures   map[string]error
	queries    []Query
	downloads  []string
	panicOn    string
}

func (f *fakeSource) Search(_ context.Context, q Query) []Candidate {
	f.queries = append(f.queries, q)
	if list, ok := f.byLanguage[q.Language]; ok {
		return list
	}
	return f.candidates
}

func (f *fakeSource) Download(_ context.Context, link string) (string, error) {
	if link == f.panicOn {
		panic("boom")
	}
	f.downloads = append(f.downloads, link)
	if err, ok := f.failures[link]; ok {
		return "", &DownloadError{Link: link, Err: err}
	}
	return f.texts[link], nil
}

func threeCandidates() []Candidate {
	return []Candidate{
		{ReleaseName: "Movie.HDTV", DownloadLink: "l/hdtv", Downloads: 900000},
		{ReleaseName: "Movie.WEB-DL", DownloadLink: "l/webdl"},
		{ReleaseName: "Movie.BluRay", DownloadLink: "l/bluray"},
	}
}

func newTestService(src *fakeSource) *Service {
	return NewService(fakeResolver{ids: map[int]string{550: "tt0137523", 1399: "tt0944947"}}, src, "eng", SortSmart, nil)
}

func TestService_GetSubtitles(t *testing.T) {
	ctx := context.Background()

	t.Run("returns best candidate by default", func(t *testing.T) {
		src := &fakeSource{
			candidates: threeCandidates(),
			texts:      map[string]string{"l/webdl": sampleSRT},
		}

		res := newTestService(src).GetSubtitles(ctx, Params{ID: 550, Kind: types.MediaTypeMovie}, 0)

		assert.True(t, res.Success)
		assert.Equal(t, sampleSRT, res.SRTContent)
		assert.Equal(t, 3, res.TotalAvailable)
		assert.Equal(t, 0, res.CurrentIndex)
		assert.Equal(t, "Movie.WEB-DL", res.ReleaseName)
		assert.Empty(t, res.Error)
		require.Len(t, src.queries, 1)
		assert.Equal(t, Query{IMDBID: "tt0137523", Language: "eng"}, src.queries[0])
	})

	t.Run("clamps out of range index", func(t *testing.T) {
		src := &fakeSource{
			candidates: threeCandidates(),
			texts:      map[string]string{"l/hdtv": sampleSRT},
		}

		res := newTestService(src).GetSubtitles(ctx, Params{ID: 550}, 99)

		require.True(t, res.Success)
		assert.Equal(t, 2, res.CurrentIndex)
		assert.Equal(t, "Movie.HDTV", res.ReleaseName)
	})

	t.Run("honors sort strategy", func(t *testing.T) {
		src := &fakeSource{
			candidates: threeCandidates(),
			texts:      map[string]string{"l/hdtv": sampleSRT},
		}

		res := newTestService(src).GetSubtitles(ctx, Params{ID: 550, Sort: SortPopular}, 0)

		require.True(t, res.Success)
		assert.Equal(t, "Movie.HDTV", res.ReleaseName)
	})

	t.Run("passes season and episode for series only", func(t *testing.T) {
		src := &fakeSource{}
		svc := newTestService(src)

		_ = svc.GetSubtitles(ctx, Params{ID: 1399, Kind: types.MediaTypeTV, Season: 1, Episode: 3, Language: "fre"}, 0)
		_ = svc.GetSubtitles(ctx, Params{ID: 550, Kind: types.MediaTypeMovie, Season: 1, Episode: 3}, 0)

		require.Len(t, src.queries, 2)
		assert.Equal(t, Query{IMDBID: "tt0944947", Season: 1, Episode: 3, Language: "fre"}, src.queries[0])
		assert.Equal(t, Query{IMDBID: "tt0137523", Language: "eng"}, src.queries[1])
	})

	t.Run("fails without external id", func(t *testing.T) {
		src := &fakeSource{candidates: threeCandidates()}

		res := newTestService(src).GetSubtitles(ctx, Params{ID: 7}, 0)

		assert.False(t, res.Success)
		assert.Equal(t, "Could not find IMDB ID for this title", res.Error)
		assert.Empty(t, src.queries)
	})

	t.Run("fails on empty search", func(t *testing.T) {
		res := newTestService(&fakeSource{}).GetSubtitles(ctx, Params{ID: 550}, 0)

		assert.False(t, res.Success)
		assert.Equal(t, "No subtitles found for this title", res.Error)
	})

	t.Run("fails when chosen candidate has no link", func(t *testing.T) {
		src := &fakeSource{candidates: []Candidate{{ReleaseName: "Movie.WEB-DL"}}}

		res := newTestService(src).GetSubtitles(ctx, Params{ID: 550}, 0)

		assert.False(t, res.Success)
		assert.Equal(t, "No download link available for this subtitle", res.Error)
		assert.Empty(t, src.downloads)
	})

	t.Run("reports download errors with cause", func(t *testing.T) {
		src := &fakeSource{
			candidates: threeCandidates(),
			failures:   map[string]error{"l/webdl": errors.New("connection reset")},
		}

		res := newTestService(src).GetSubtitles(ctx, Params{ID: 550}, 0)

		assert.False(t, res.Success)
		assert.Equal(t, "failed to download subtitle: connection reset", res.Error)
	})

	t.Run("recovers from panics", func(t *testing.T) {
		src := &fakeSource{candidates: threeCandidates(), panicOn: "l/webdl"}

		res := newTestService(src).GetSubtitles(ctx, Params{ID: 550}, 0)

		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "boom")
	})
}

func TestService_Candidates(t *testing.T) {
	src := &fakeSource{candidates: threeCandidates()}

	got, err := newTestService(src).Candidates(context.Background(), Params{ID: 550})

	require.NoError(t, err)
	assert.Equal(t, []string{"Movie.WEB-DL", "Movie.BluRay", "Movie.HDTV"}, names(got))

	_, err = newTestService(src).Candidates(context.Background(), Params{ID: 1})
	assert.ErrorIs(t, err, ErrNoExternalID)
}
