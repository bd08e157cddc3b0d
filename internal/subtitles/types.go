package subtitles

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SortStrategy orders search candidates before one is picked
type SortStrategy string

const (
	// SortSmart orders by Score, best first
	SortSmart SortStrategy = "smart"
	// SortPopular orders by download count, highest first
	SortPopular SortStrategy = "popular"
	// SortRecent keeps the provider order (newest first)
	SortRecent SortStrategy = "recent"
)

// ParseSortStrategy maps a config or flag value to a strategy; unknown values mean smart
func ParseSortStrategy(s string) SortStrategy {
	switch SortStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case SortPopular:
		return SortPopular
	case SortRecent:
		return SortRecent
	default:
		return SortSmart
	}
}

// Candidate is one subtitle search result
type Candidate struct {
	ReleaseName  string `json:"releaseName"`
	MovieName    string `json:"movieName"`
	LanguageName string `json:"languageName"`
	Format       string `json:"format"`
	Downloads    int    `json:"downloads"`
	Season       int    `json:"season,omitempty"`
	Episode      int    `json:"episode,omitempty"`
	DownloadLink string `json:"downloadLink"`
}

// looseInt decodes integers the provider sends as strings, numbers or
// garbage. Anything unparsable becomes 0.
type looseInt int

func (n *looseInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*n = 0
		return nil
	}
	*n = looseInt(v)
	return nil
}

// searchEntry is the wire shape of one /search result
type searchEntry struct {
	SubDownloadLink  string   `json:"SubDownloadLink"`
	MovieName        string   `json:"MovieName"`
	MovieReleaseName string   `json:"MovieReleaseName"`
	SubFileName      string   `json:"SubFileName"`
	LanguageName     string   `json:"LanguageName"`
	SubFormat        string   `json:"SubFormat"`
	SubDownloadsCnt  looseInt `json:"SubDownloadsCnt"`
	SeriesSeason     looseInt `json:"SeriesSeason"`
	SeriesEpisode    looseInt `json:"SeriesEpisode"`
}

func (e searchEntry) candidate() Candidate {
	release := strings.TrimSpace(e.MovieReleaseName)
	if release == "" {
		release = strings.TrimSpace(e.SubFileName)
	}
	if release == "" {
		release = e.MovieName
	}

	return Candidate{
		ReleaseName:  release,
		MovieName:    e.MovieName,
		LanguageName: e.LanguageName,
		Format:       e.SubFormat,
		Downloads:    int(e.SubDownloadsCnt),
		Season:       int(e.SeriesSeason),
		Episode:      int(e.SeriesEpisode),
		DownloadLink: e.SubDownloadLink,
	}
}

var _ json.Unmarshaler = (*looseInt)(nil)
