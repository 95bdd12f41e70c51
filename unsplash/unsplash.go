// Package unsplash is a client for the Unsplash API
// (https://unsplash.com/documentation). All endpoints require an access
// key. Downloads follow the API terms: the tracking endpoint is hit before
// the image bytes are fetched from the CDN.
package unsplash

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/joeshaw/envdecode"
	"github.com/rs/zerolog"

	"github.com/wallgrab/wallgrab/internal"
	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.unsplash.com/"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	// AccessKey authenticates requests. Required; falls back to the
	// UNSPLASH_ACCESS_KEY environment variable.
	AccessKey string

	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client

	// MaxRetries is the number of retries after a 429 response.
	// Zero fails fast with a RateLimitError.
	MaxRetries int

	// RetryDelay is the backoff before the first retry. Defaults to 1s,
	// doubling per attempt.
	RetryDelay time.Duration

	// RequestsPerMinute and Burst tune the client-side throttle. The
	// demo tier allows 50 requests per hour; the defaults are far above
	// that, so set these when running on a demo key.
	RequestsPerMinute float64
	Burst             int

	// Logger receives debug logs. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

type envCredentials struct {
	AccessKey string `env:"UNSPLASH_ACCESS_KEY"`
}

// Client is an Unsplash API client. Safe for concurrent use.
type Client struct {
	transport *internal.Transport
	logger    zerolog.Logger
}

// NewClient creates a Client. Returns an AuthError when no access key is
// available.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	accessKey := cfg.AccessKey
	if accessKey == "" {
		var creds envCredentials
		_ = envdecode.Decode(&creds)
		accessKey = creds.AccessKey
	}
	if accessKey == "" {
		return nil, &pkgerrs.AuthError{Message: "access key is required (set UNSPLASH_ACCESS_KEY)"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	headers := func(ctx context.Context) (http.Header, error) {
		h := http.Header{}
		h.Set("Authorization", "Client-ID "+accessKey)
		h.Set("Accept-Version", "v1")
		return h, nil
	}

	var rateCfg *internal.RateLimitConfig
	if cfg.RequestsPerMinute > 0 || cfg.Burst > 0 {
		rateCfg = &internal.RateLimitConfig{
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             cfg.Burst,
		}
	}

	transport, err := internal.NewTransport(
		httpClient,
		baseURL,
		headers,
		internal.RetryPolicy{MaxRetries: cfg.MaxRetries, InitialDelay: cfg.RetryDelay},
		rateCfg,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &Client{transport: transport, logger: logger}, nil
}

// Search returns one page of photo search results.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	q, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search params: %w", err)
	}

	var result SearchResult
	if err := c.transport.GetJSON(ctx, "search/photos", q, &result); err != nil {
		return nil, err
	}

	result.Page = params.Page
	if result.Page == 0 {
		result.Page = 1
	}

	c.logger.Debug().
		Int("page", result.Page).
		Int("total_pages", result.TotalPages).
		Int("count", len(result.Results)).
		Msg("unsplash search page")
	return &result, nil
}

// Photo fetches the full detail for a single photo.
func (c *Client) Photo(ctx context.Context, id string) (*Photo, error) {
	if id == "" {
		return nil, &pkgerrs.ValidationError{Field: "id", Message: "must not be empty"}
	}

	var photo Photo
	if err := c.transport.GetJSON(ctx, "photos/"+id, nil, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// Random fetches a random photo matching params. params may be nil.
func (c *Client) Random(ctx context.Context, params *RandomParams) (*Photo, error) {
	if params == nil {
		params = &RandomParams{}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	q, err := query.Values(*params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode random params: %w", err)
	}

	var photo Photo
	if err := c.transport.GetJSON(ctx, "photos/random", q, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// Download fetches a photo's image bytes. It first hits the photo's
// download_location tracking endpoint as the API terms require, then
// fetches the CDN URL the tracking response points at.
func (c *Client) Download(ctx context.Context, p *Photo) ([]byte, error) {
	if p == nil || p.Links.DownloadLocation == "" {
		return nil, &pkgerrs.ValidationError{Field: "DownloadLocation", Message: "photo has no download location"}
	}

	var tracked struct {
		URL string `json:"url"`
	}
	if err := c.transport.GetJSON(ctx, p.Links.DownloadLocation, nil, &tracked); err != nil {
		return nil, err
	}
	if tracked.URL == "" {
		return nil, fmt.Errorf("download tracking response for photo %q had no url", p.ID)
	}

	return c.transport.Download(ctx, tracked.URL, nil)
}
