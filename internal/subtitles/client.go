package subtitles

import (
	"context"
	"log/slog"
	"time"

	"github.com/justchokingaround/marquee/internal/config"
	providerhttp "github.com/justchokingaround/marquee/internal/providers/http"
)

const (
	defaultSearchTimeout   = 10 * time.Second
	defaultDownloadTimeout = 30 * time.Second
)

// Client talks to the subtitle provider. Search and download use separate
// HTTP clients because their deadlines differ.
type Client struct {
	search   *providerhttp.Client
	download *providerhttp.Client
	logger   *slog.Logger
}

// NewClient builds a subtitle provider client from config
func NewClient(cfg config.SubtitlesConfig, debug bool, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	searchTimeout := cfg.SearchTimeout
	if searchTimeout == 0 {
		searchTimeout = defaultSearchTimeout
	}
	downloadTimeout := cfg.DownloadTimeout
	if downloadTimeout == 0 {
		downloadTimeout = defaultDownloadTimeout
	}

	headers := map[string]string{"X-User-Agent": cfg.UserAgent}

	return &Client{
		search: providerhttp.NewClient(providerhttp.ClientConfig{
			Name:      "subtitles",
			BaseURL:   cfg.BaseURL,
			Timeout:   searchTimeout,
			UserAgent: cfg.UserAgent,
			Headers:   headers,
			Debug:     debug,
			Logger:    logger,
		}),
		download: providerhttp.NewClient(providerhttp.ClientConfig{
			Name:      "subtitles-download",
			Timeout:   downloadTimeout,
			UserAgent: cfg.UserAgent,
			Headers:   headers,
			Debug:     debug,
			Logger:    logger,
		}),
		logger: logger,
	}
}

// Search returns candidates in provider order. Any failure, transport or
// decoding, yields an empty result and is only logged.
func (c *Client) Search(ctx context.Context, q Query) []Candidate {
	path := BuildSearchPath(q)

	var entries []searchEntry
	if err := c.search.GetJSON(ctx, path, nil, &entries); err != nil {
		c.logger.Warn("subtitle search failed", "path", path, "error", err)
		return nil
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, e.candidate())
	}

	c.logger.Debug("subtitle search", "path", path, "results", len(candidates))
	return candidates
}

// Download fetches the compressed payload at link and returns the decoded text
func (c *Client) Download(ctx context.Context, link string) (string, error) {
	body, err := c.download.GetBytes(ctx, link)
	if err != nil {
		return "", &DownloadError{Link: link, Err: err}
	}

	text, err := Decode(body)
	if err != nil {
		return "", &DownloadError{Link: link, Err: err}
	}
	return text, nil
}
