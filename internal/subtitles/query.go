package subtitles

import (
	"strconv"
	"strings"
)

// Query identifies the subtitle track to search for. Season and Episode are
// omitted from the search when zero.
type Query struct {
	IMDBID   string
	Season   int
	Episode  int
	Language string
}

// BuildSearchPath returns the provider search path. The segment order
// (episode, imdbid, season, sublanguageid) is what the provider expects and
// must not change.
func BuildSearchPath(q Query) string {
	id := strings.TrimPrefix(strings.TrimSpace(q.IMDBID), "tt")

	segments := make([]string, 0, 4)
	if q.Episode > 0 {
		segments = append(segments, "episode-"+strconv.Itoa(q.Episode))
	}
	segments = append(segments, "imdbid-"+id)
	if q.Season > 0 {
		segments = append(segments, "season-"+strconv.Itoa(q.Season))
	}
	segments = append(segments, "sublanguageid-"+q.Language)

	return "/search/" + strings.Join(segments, "/")
}
