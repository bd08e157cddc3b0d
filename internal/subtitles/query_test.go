package subtitles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSearchPath(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "movie strips tt prefix",
			query: Query{IMDBID: "tt0137523", Language: "eng"},
			want:  "/search/imdbid-0137523/sublanguageid-eng",
		},
		{
			name:  "id without prefix is kept",
			query: Query{IMDBID: "0137523", Language: "eng"},
			want:  "/search/imdbid-0137523/sublanguageid-eng",
		},
		{
			name:  "episode comes first and season after the id",
			query: Query{IMDBID: "tt0944947", Season: 1, Episode: 3, Language: "eng"},
			want:  "/search/episode-3/imdbid-0944947/season-1/sublanguageid-eng",
		},
		{
			name:  "season only",
			query: Query{IMDBID: "tt0944947", Season: 2, Language: "fre"},
			want:  "/search/imdbid-0944947/season-2/sublanguageid-fre",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSearchPath(tt.query))
		})
	}
}
