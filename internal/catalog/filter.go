package catalog

import (
	"github.com/justchokingaround/marquee/internal/tmdb"
	"github.com/justchokingaround/marquee/pkg/types"
)

// DefaultPageSize is the number of items kept per category row
const DefaultPageSize = 20

// heroMinRating is exclusive: a rating of exactly 6 does not qualify
const heroMinRating = 6.0

// ToCatalogItem converts a provider list entry. Entries without a media_type
// (e.g. from /movie/popular) take fallback as their kind.
func ToCatalogItem(item tmdb.ListItem, fallback types.MediaType) types.CatalogItem {
	kind := types.MediaType(item.MediaType)
	if kind == "" {
		kind = fallback
	}

	return types.CatalogItem{
		ID:           item.ID,
		Kind:         kind,
		Title:        item.DisplayTitle(),
		PosterPath:   item.PosterPath,
		BackdropPath: item.BackdropPath,
		Rating:       item.VoteAverage,
		Raw:          item.Raw,
	}
}

// ToCatalogItems converts every entry of a list response
func ToCatalogItems(items []tmdb.ListItem, fallback types.MediaType) []types.CatalogItem {
	out := make([]types.CatalogItem, 0, len(items))
	for _, item := range items {
		out = append(out, ToCatalogItem(item, fallback))
	}
	return out
}

// FilterValid keeps displayable entries (both images and a non-empty title),
// truncated to pageSize. Untitled movie/tv entries are dropped too.
func FilterValid(items []types.CatalogItem, pageSize int) []types.CatalogItem {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	out := make([]types.CatalogItem, 0, min(len(items), pageSize))
	for _, item := range items {
		if len(out) == pageSize {
			break
		}
		if !item.Displayable() {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SelectHero picks the featured item:
//  1. the first item with both images, a rating above 6 and a movie/tv kind
//  2. else the first item with both images
//  3. else the first item
//
// It returns nil for an empty input.
func SelectHero(items []types.CatalogItem) *types.CatalogItem {
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		if items[i].HasImages() && items[i].Rating > heroMinRating && items[i].Kind.IsTitleKind() {
			return pick(items, i)
		}
	}

	for i := range items {
		if items[i].HasImages() {
			return pick(items, i)
		}
	}

	return pick(items, 0)
}

func pick(items []types.CatalogItem, i int) *types.CatalogItem {
	hero := items[i]
	return &hero
}
