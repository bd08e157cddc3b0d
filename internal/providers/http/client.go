package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/justchokingaround/marquee/internal/metrics"
)

// Client wraps resty.Client with a fixed base URL, default headers and timeout.
// Requests are never retried.
type Client struct {
	resty   *resty.Client
	name    string
	baseURL string
	debug   bool
	logger  *slog.Logger
}

// ClientConfig holds configuration for the HTTP client
type ClientConfig struct {
	// Name labels metrics and log lines ("tmdb", "subtitles", ...)
	Name      string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Transport is the underlying http.Client, e.g. one built by oauth2.NewClient
	Transport *http.Client
	Debug     bool
	Logger    *slog.Logger
}

// ProviderError is returned for transport failures and non-2xx responses
type ProviderError struct {
	Provider   string
	URL        string
	StatusCode int // 0 for transport failures
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed for %s: %v", e.Provider, e.URL, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s HTTP %d for %s: %v", e.Provider, e.StatusCode, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s HTTP error %d for %s: %s", e.Provider, e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("%s HTTP error %d for %s", e.Provider, e.StatusCode, e.URL)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the provider answered 404
func (e *ProviderError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config ClientConfig) *Client {
	if config.Name == "" {
		config.Name = "provider"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "marquee/1.0"
	}

	var restyClient *resty.Client
	if config.Transport != nil {
		restyClient = resty.NewWithClient(config.Transport)
	} else {
		restyClient = resty.New()
	}

	restyClient.
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	for key, value := range config.Headers {
		restyClient.SetHeader(key, value)
	}

	client := &Client{
		resty:   restyClient,
		name:    config.Name,
		baseURL: config.BaseURL,
		debug:   config.Debug,
		logger:  config.Logger,
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}

	restyClient.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
		metrics.ObserveProviderRequest(client.name, r.StatusCode(), r.Time())
		return nil
	})

	// Enable debug logging if requested
	if config.Debug {
		restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
			client.logRequest(r)
			return nil
		})
		restyClient.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
			client.logResponse(r)
			return nil
		})
	}

	return client
}

// Get performs a GET request against path (relative to the base URL, or absolute)
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (*resty.Response, error) {
	req := c.resty.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	return c.do(req, path)
}

func (c *Client) do(req *resty.Request, path string) (*resty.Response, error) {
	resp, err := req.Get(path)
	if err != nil {
		metrics.ObserveProviderRequest(c.name, 0, 0)
		return nil, &ProviderError{Provider: c.name, URL: c.resolve(path), Err: err}
	}

	if resp.IsError() || resp.StatusCode() >= 300 {
		return resp, &ProviderError{
			Provider:   c.name,
			URL:        c.resolve(path),
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), 512),
		}
	}

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON body into result
func (c *Client) GetJSON(ctx context.Context, path string, params map[string]string, result interface{}) error {
	resp, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return &ProviderError{
			Provider:   c.name,
			URL:        c.resolve(path),
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("failed to parse response: %w", err),
		}
	}

	return nil
}

// GetBytes performs a GET request for a binary payload and returns the raw body
func (c *Client) GetBytes(ctx context.Context, path string) ([]byte, error) {
	req := c.resty.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*")

	resp, err := c.do(req, path)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *Client) resolve(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return c.baseURL + path
	}
	return path
}

// logRequest logs HTTP request details
func (c *Client) logRequest(r *resty.Request) {
	c.logger.Debug("HTTP Request",
		"provider", c.name,
		"method", r.Method,
		"url", r.URL,
		"query", r.QueryParam.Encode(),
	)
}

// logResponse logs HTTP response details
func (c *Client) logResponse(r *resty.Response) {
	c.logger.Debug("HTTP Response",
		"provider", c.name,
		"status", r.StatusCode(),
		"status_text", r.Status(),
		"url", r.Request.URL,
		"time", r.Time(),
	)

	c.logger.Debug("Response Body",
		"provider", c.name,
		"body", truncate(r.String(), 1000),
	)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "... (truncated)"
	}
	return s
}
