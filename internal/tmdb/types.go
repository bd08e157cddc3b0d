package tmdb

import (
	"encoding/json"
	"fmt"
)

// ListResponse is the paged envelope shared by list, trending, search,
// similar and recommendations endpoints
type ListResponse struct {
	Page         int        `json:"page"`
	Results      []ListItem `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// ListItem is a movie, series or person entry inside a ListResponse.
// Movies carry Title, series carry Name.
type ListItem struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the original bytes
func (i *ListItem) UnmarshalJSON(data []byte) error {
	type alias ListItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = ListItem(a)
	i.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// DisplayTitle returns Title for movies and Name for series
func (i ListItem) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// Genre is a TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the /movie/{id} payload
type MovieDetails struct {
	ID            int     `json:"id"`
	IMDBID        string  `json:"imdb_id,omitempty"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Overview      string  `json:"overview"`
	Tagline       string  `json:"tagline,omitempty"`
	PosterPath    string  `json:"poster_path,omitempty"`
	BackdropPath  string  `json:"backdrop_path,omitempty"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	Runtime       *int    `json:"runtime,omitempty"`
	Status        string  `json:"status,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Genres        []Genre `json:"genres"`
	Budget        int64   `json:"budget,omitempty"`
	Revenue       int64   `json:"revenue,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the original bytes
func (m *MovieDetails) UnmarshalJSON(data []byte) error {
	type alias MovieDetails
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = MovieDetails(a)
	m.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Validate rejects payloads that are not a movie record
func (m *MovieDetails) Validate() error {
	if m.ID == 0 {
		return fmt.Errorf("movie payload has no id")
	}
	if m.Title == "" {
		return fmt.Errorf("movie %d has no title", m.ID)
	}
	return nil
}

// SeasonSummary is a season entry inside SeriesDetails
type SeasonSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
}

// SeriesDetails is the /tv/{id} payload
type SeriesDetails struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	OriginalName     string          `json:"original_name,omitempty"`
	Overview         string          `json:"overview"`
	Tagline          string          `json:"tagline,omitempty"`
	PosterPath       string          `json:"poster_path,omitempty"`
	BackdropPath     string          `json:"backdrop_path,omitempty"`
	FirstAirDate     string          `json:"first_air_date,omitempty"`
	LastAirDate      string          `json:"last_air_date,omitempty"`
	Status           string          `json:"status,omitempty"`
	InProduction     bool            `json:"in_production"`
	NumberOfSeasons  int             `json:"number_of_seasons"`
	NumberOfEpisodes int             `json:"number_of_episodes"`
	EpisodeRunTime   []int           `json:"episode_run_time,omitempty"`
	VoteAverage      float64         `json:"vote_average"`
	VoteCount        int             `json:"vote_count"`
	Genres           []Genre         `json:"genres"`
	Seasons          []SeasonSummary `json:"seasons"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the original bytes
func (s *SeriesDetails) UnmarshalJSON(data []byte) error {
	type alias SeriesDetails
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = SeriesDetails(a)
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Validate rejects payloads that are not a series record
func (s *SeriesDetails) Validate() error {
	if s.ID == 0 {
		return fmt.Errorf("series payload has no id")
	}
	if s.Name == "" {
		return fmt.Errorf("series %d has no name", s.ID)
	}
	return nil
}

// Episode is an episode inside SeasonDetails
type Episode struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	AirDate       string  `json:"air_date,omitempty"`
	Runtime       *int    `json:"runtime,omitempty"`
	StillPath     string  `json:"still_path,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
}

// SeasonDetails is the /tv/{id}/season/{n} payload
type SeasonDetails struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	SeasonNumber int       `json:"season_number"`
	AirDate      string    `json:"air_date,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	Episodes     []Episode `json:"episodes"`
}

// CastMember is a credited actor
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is a credited crew member
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Credits is the /{kind}/{id}/credits payload
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a trailer, teaser or clip
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
	Size     int    `json:"size"`
}

// Videos is the /{kind}/{id}/videos payload
type Videos struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// ExternalIDs is the /{kind}/{id}/external_ids payload. Every field is optional.
type ExternalIDs struct {
	ID          int     `json:"id"`
	IMDBID      *string `json:"imdb_id"`
	TVDBID      *int    `json:"tvdb_id"`
	WikidataID  *string `json:"wikidata_id"`
	FacebookID  *string `json:"facebook_id"`
	InstagramID *string `json:"instagram_id"`
	TwitterID   *string `json:"twitter_id"`
}
