package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/justchokingaround/marquee/internal/batch"
	"github.com/justchokingaround/marquee/internal/config"
	"github.com/justchokingaround/marquee/pkg/types"
)

// MyListTitle is the title of the synthesized saved-items category
const MyListTitle = "My List"

// Aggregator builds home screens and detail bundles from the metadata provider
type Aggregator struct {
	provider Provider
	saved    SavedList
	feeds    config.FeedsConfig
	pageSize int
	logger   *slog.Logger
}

// Options configures an Aggregator
type Options struct {
	Feeds    config.FeedsConfig
	PageSize int
	Logger   *slog.Logger
}

// NewAggregator creates an aggregator. saved may be nil, in which case no
// "My List" category is ever produced.
func NewAggregator(provider Provider, saved SavedList, opts Options) *Aggregator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Aggregator{
		provider: provider,
		saved:    saved,
		feeds:    opts.Feeds,
		pageSize: opts.PageSize,
		logger:   opts.Logger,
	}
}

func (a *Aggregator) feedSet(kind types.MediaType) (config.FeedSet, error) {
	set, ok := a.feeds.FeedSet(string(kind))
	if !ok {
		return config.FeedSet{}, fmt.Errorf("unsupported media type %q", kind)
	}
	return set, nil
}

// fetchFeed retrieves one list endpoint as a resolved category
func (a *Aggregator) fetchFeed(ctx context.Context, feed config.Feed) (types.Category, error) {
	list, err := a.provider.List(ctx, feed.Path)
	if err != nil {
		return types.Category{}, fmt.Errorf("feed %q: %w", feed.Title, err)
	}

	items := FilterValid(ToCatalogItems(list.Results, types.MediaType(feed.Kind)), a.pageSize)
	return types.Resolved(feed.Title, items), nil
}

// FetchContent builds the home model for a tab. The hero feed, the saved
// items and every priority feed are fetched in one batch; any failure fails
// the whole call.
func (a *Aggregator) FetchContent(ctx context.Context, kind types.MediaType) (*types.HomeModel, error) {
	set, err := a.feedSet(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	var hero *types.CatalogItem
	var saved []types.CatalogItem
	priority := make([]types.Category, len(set.Priority))

	tasks := []batch.Task{
		func(ctx context.Context) error {
			list, err := a.provider.List(ctx, set.Hero.Path)
			if err != nil {
				return fmt.Errorf("hero feed: %w", err)
			}
			hero = SelectHero(ToCatalogItems(list.Results, types.MediaType(set.Hero.Kind)))
			return nil
		},
		func(ctx context.Context) error {
			saved = a.resolveSaved(ctx)
			return nil
		},
	}
	for i, feed := range set.Priority {
		tasks = append(tasks, func(ctx context.Context) error {
			category, err := a.fetchFeed(ctx, feed)
			if err != nil {
				return err
			}
			priority[i] = category
			return nil
		})
	}

	if err := batch.All(ctx, "home_"+string(kind), tasks...); err != nil {
		a.logger.Error("home content fetch failed", "kind", kind, "error", err)
		return nil, err
	}

	categories := AssembleCategories(kind, priority, saved, set.Lazy)

	a.logger.Debug("home content fetched",
		"kind", kind,
		"categories", len(categories),
		"saved", len(saved),
		"has_hero", hero != nil,
		"elapsed", time.Since(start),
	)

	return &types.HomeModel{Hero: hero, Categories: categories}, nil
}

// resolveSaved never fails: an unreadable store counts as an empty list
func (a *Aggregator) resolveSaved(ctx context.Context) []types.CatalogItem {
	if a.saved == nil {
		return []types.CatalogItem{}
	}

	ids, err := a.saved.Get(ctx)
	if err != nil {
		a.logger.Warn("failed to read saved items", "error", err)
		return []types.CatalogItem{}
	}

	return ResolveSaved(ctx, a.provider, ids, a.logger)
}

// AssembleCategories orders the home rows: the first priority category, then
// "My List" (only for the all tab and only when non-empty), then the remaining
// priority categories, then one placeholder per lazy feed.
func AssembleCategories(kind types.MediaType, priority []types.Category, saved []types.CatalogItem, lazy []config.Feed) []types.Category {
	categories := make([]types.Category, 0, len(priority)+len(lazy)+1)

	if len(priority) > 0 {
		categories = append(categories, priority[0])
	}

	if kind == types.MediaTypeAll && len(saved) > 0 {
		categories = append(categories, types.Resolved(MyListTitle, saved))
	}

	if len(priority) > 1 {
		categories = append(categories, priority[1:]...)
	}

	for _, feed := range lazy {
		categories = append(categories, types.Placeholder(feed.Title))
	}

	return categories
}

// FetchLazyCategories resolves the deferred feeds for a tab, in configured
// order. Any failure fails the whole call.
func (a *Aggregator) FetchLazyCategories(ctx context.Context, kind types.MediaType) ([]types.Category, error) {
	set, err := a.feedSet(kind)
	if err != nil {
		return nil, err
	}

	categories, err := batch.Map(ctx, "lazy_"+string(kind), len(set.Lazy), func(ctx context.Context, i int) (types.Category, error) {
		return a.fetchFeed(ctx, set.Lazy[i])
	})
	if err != nil {
		a.logger.Error("lazy categories fetch failed", "kind", kind, "error", err)
		return nil, err
	}

	return categories, nil
}

// SpliceLazy replaces placeholder categories with resolved ones of the same
// title. Categories without a matching resolved row are left untouched.
func SpliceLazy(categories []types.Category, resolved []types.Category) []types.Category {
	byTitle := make(map[string]types.Category, len(resolved))
	for _, c := range resolved {
		byTitle[c.Title] = c
	}

	out := make([]types.Category, len(categories))
	for i, c := range categories {
		if r, ok := byTitle[c.Title]; ok && c.Loading {
			out[i] = r
			continue
		}
		out[i] = c
	}
	return out
}

// Search queries the provider and orders displayable results by how closely
// their titles match query. Results the matcher rejects keep provider order
// after the matched ones.
func (a *Aggregator) Search(ctx context.Context, kind types.MediaType, query string) ([]types.CatalogItem, error) {
	list, err := a.provider.Search(ctx, kind, query)
	if err != nil {
		return nil, err
	}

	fallback := types.MediaType("")
	if kind.IsTitleKind() {
		fallback = kind
	}
	items := FilterValid(ToCatalogItems(list.Results, fallback), a.pageSize)

	return RankByTitle(query, items), nil
}

type titleSource []types.CatalogItem

func (s titleSource) String(i int) string { return s[i].Title }
func (s titleSource) Len() int            { return len(s) }

// RankByTitle sorts items by fuzzy title match against query
func RankByTitle(query string, items []types.CatalogItem) []types.CatalogItem {
	matches := fuzzy.FindFrom(query, titleSource(items))

	out := make([]types.CatalogItem, 0, len(items))
	used := make([]bool, len(items))
	for _, m := range matches {
		out = append(out, items[m.Index])
		used[m.Index] = true
	}
	for i, item := range items {
		if !used[i] {
			out = append(out, item)
		}
	}
	return out
}
