package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/justchokingaround/marquee/internal/config"
	providerhttp "github.com/justchokingaround/marquee/internal/providers/http"
	"github.com/justchokingaround/marquee/pkg/types"
)

// Client talks to the TMDB v3 API using a v4 read access token
type Client struct {
	http     *providerhttp.Client
	language string
	logger   *slog.Logger
}

// NewClient creates a metadata client. The access token is attached as a
// bearer credential by an oauth2 transport.
func NewClient(cfg config.TMDBConfig, debug bool, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	var transport *http.Client
	if cfg.APIKey != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
		transport = oauth2.NewClient(context.Background(), ts)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		http: providerhttp.NewClient(providerhttp.ClientConfig{
			Name:      "tmdb",
			BaseURL:   cfg.BaseURL,
			Timeout:   timeout,
			UserAgent: "marquee/1.0",
			Transport: transport,
			Debug:     debug,
			Logger:    logger,
		}),
		language: cfg.Language,
		logger:   logger,
	}
}

func (c *Client) params() map[string]string {
	if c.language == "" {
		return nil
	}
	return map[string]string{"language": c.language}
}

func titlePath(kind types.MediaType, id int) (string, error) {
	if !kind.IsTitleKind() {
		return "", fmt.Errorf("unsupported media type %q", kind)
	}
	return "/" + string(kind) + "/" + strconv.Itoa(id), nil
}

// List fetches any paged list endpoint (trending, popular, top_rated, ...)
func (c *Client) List(ctx context.Context, path string) (*ListResponse, error) {
	var resp ListResponse
	if err := c.http.GetJSON(ctx, path, c.params(), &resp); err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	return &resp, nil
}

// Search queries /search/{movie|tv|multi}
func (c *Client) Search(ctx context.Context, kind types.MediaType, query string) (*ListResponse, error) {
	segment := "multi"
	if kind.IsTitleKind() {
		segment = string(kind)
	}

	params := map[string]string{"query": query, "include_adult": "false"}
	if c.language != "" {
		params["language"] = c.language
	}

	var resp ListResponse
	if err := c.http.GetJSON(ctx, "/search/"+segment, params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return &resp, nil
}

// Movie fetches /movie/{id}
func (c *Client) Movie(ctx context.Context, id int) (*MovieDetails, error) {
	var details MovieDetails
	if err := c.http.GetJSON(ctx, "/movie/"+strconv.Itoa(id), c.params(), &details); err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	return &details, nil
}

// Series fetches /tv/{id}
func (c *Client) Series(ctx context.Context, id int) (*SeriesDetails, error) {
	var details SeriesDetails
	if err := c.http.GetJSON(ctx, "/tv/"+strconv.Itoa(id), c.params(), &details); err != nil {
		return nil, fmt.Errorf("series %d: %w", id, err)
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	return &details, nil
}

// Season fetches /tv/{id}/season/{n}
func (c *Client) Season(ctx context.Context, seriesID, season int) (*SeasonDetails, error) {
	path := fmt.Sprintf("/tv/%d/season/%d", seriesID, season)

	var details SeasonDetails
	if err := c.http.GetJSON(ctx, path, c.params(), &details); err != nil {
		return nil, fmt.Errorf("season %d of series %d: %w", season, seriesID, err)
	}
	return &details, nil
}

// Credits fetches /{kind}/{id}/credits
func (c *Client) Credits(ctx context.Context, kind types.MediaType, id int) (*Credits, error) {
	base, err := titlePath(kind, id)
	if err != nil {
		return nil, err
	}

	var credits Credits
	if err := c.http.GetJSON(ctx, base+"/credits", c.params(), &credits); err != nil {
		return nil, fmt.Errorf("credits: %w", err)
	}
	return &credits, nil
}

// Videos fetches /{kind}/{id}/videos
func (c *Client) Videos(ctx context.Context, kind types.MediaType, id int) (*Videos, error) {
	base, err := titlePath(kind, id)
	if err != nil {
		return nil, err
	}

	var videos Videos
	if err := c.http.GetJSON(ctx, base+"/videos", c.params(), &videos); err != nil {
		return nil, fmt.Errorf("videos: %w", err)
	}
	return &videos, nil
}

// Similar fetches /{kind}/{id}/similar
func (c *Client) Similar(ctx context.Context, kind types.MediaType, id int) (*ListResponse, error) {
	base, err := titlePath(kind, id)
	if err != nil {
		return nil, err
	}
	return c.List(ctx, base+"/similar")
}

// Recommendations fetches /{kind}/{id}/recommendations
func (c *Client) Recommendations(ctx context.Context, kind types.MediaType, id int) (*ListResponse, error) {
	base, err := titlePath(kind, id)
	if err != nil {
		return nil, err
	}
	return c.List(ctx, base+"/recommendations")
}

// ExternalIDs fetches /{kind}/{id}/external_ids
func (c *Client) ExternalIDs(ctx context.Context, kind types.MediaType, id int) (*ExternalIDs, error) {
	base, err := titlePath(kind, id)
	if err != nil {
		return nil, err
	}

	var ids ExternalIDs
	if err := c.http.GetJSON(ctx, base+"/external_ids", nil, &ids); err != nil {
		return nil, fmt.Errorf("external ids: %w", err)
	}
	return &ids, nil
}
