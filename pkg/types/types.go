package types

import (
	"encoding/json"
	"strings"
)

// MediaType is the provider-scoped kind of a catalog entry
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv" // series
	MediaTypeAll   MediaType = "all"
)

// ParseMediaType accepts the provider names plus a few aliases
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return MediaTypeMovie, true
	case "tv", "series", "show", "shows":
		return MediaTypeTV, true
	case "all", "":
		return MediaTypeAll, true
	default:
		return "", false
	}
}

// IsTitleKind reports whether t names a concrete title kind (movie or tv)
func (t MediaType) IsTitleKind() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

func (t MediaType) String() string {
	return string(t)
}

// CatalogItem is a single displayable catalog entry
type CatalogItem struct {
	ID           int             `json:"id"`
	Kind         MediaType       `json:"media_type"`
	Title        string          `json:"title"`
	PosterPath   string          `json:"poster_path,omitempty"`
	BackdropPath string          `json:"backdrop_path,omitempty"`
	Rating       float64         `json:"vote_average"`
	Raw          json.RawMessage `json:"raw,omitempty"`
}

// HasImages reports whether both poster and backdrop references are present
func (c CatalogItem) HasImages() bool {
	return c.PosterPath != "" && c.BackdropPath != ""
}

// Displayable reports whether the item can be rendered in a category row
func (c CatalogItem) Displayable() bool {
	return c.HasImages() && c.Title != ""
}

// PosterURL returns the full poster URL for the given size (e.g. "w500")
func (c CatalogItem) PosterURL(imageBase, size string) string {
	return imageURL(imageBase, size, "w500", c.PosterPath)
}

// BackdropURL returns the full backdrop URL for the given size (e.g. "w1280")
func (c CatalogItem) BackdropURL(imageBase, size string) string {
	return imageURL(imageBase, size, "w1280", c.BackdropPath)
}

func imageURL(base, size, fallback, path string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = fallback
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}

// Category is a titled row of catalog items. A placeholder has Loading set
// and no items; a resolved category has Loading unset.
type Category struct {
	Title   string        `json:"title"`
	Items   []CatalogItem `json:"items"`
	Loading bool          `json:"loading"`
}

// Placeholder returns an unresolved category with the given title
func Placeholder(title string) Category {
	return Category{Title: title, Items: []CatalogItem{}, Loading: true}
}

// Resolved returns a populated category
func Resolved(title string, items []CatalogItem) Category {
	if items == nil {
		items = []CatalogItem{}
	}
	return Category{Title: title, Items: items}
}

// HomeModel is the home screen for one tab
type HomeModel struct {
	Hero       *CatalogItem `json:"hero"`
	Categories []Category   `json:"categories"`
}

// SubtitleResult is the tagged outcome of a subtitle lookup
type SubtitleResult struct {
	Success        bool   `json:"success"`
	SRTContent     string `json:"srtContent,omitempty"`
	TotalAvailable int    `json:"totalAvailable,omitempty"`
	CurrentIndex   int    `json:"currentIndex"`
	ReleaseName    string `json:"releaseName,omitempty"`
	Error          string `json:"error,omitempty"`
}
