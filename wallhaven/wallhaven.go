// Package wallhaven is a client for the Wallhaven v1 API
// (https://wallhaven.cc/help/api). Most endpoints work anonymously; an API
// key unlocks NSFW results, user settings and private collections.
package wallhaven

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/joeshaw/envdecode"
	"github.com/rs/zerolog"

	"github.com/wallgrab/wallgrab/internal"
	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://wallhaven.cc/api/v1/"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	apiKeyHeader = "X-API-Key"
)

// Config configures a Client. The zero value gives an anonymous client
// against the production API.
type Config struct {
	// APIKey authenticates requests. Optional for SFW content; required
	// for NSFW purity, Settings and private Collections. Falls back to
	// the WALLHAVEN_API_KEY environment variable.
	APIKey string

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

	// RequestsPerMinute and Burst tune the client-side throttle.
	RequestsPerMinute float64
	Burst             int

	// Logger receives debug logs. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

type envCredentials struct {
	APIKey string `env:"WALLHAVEN_API_KEY"`
}

// Client is a Wallhaven API client. Safe for concurrent use.
type Client struct {
	transport *internal.Transport
	apiKey    string
	logger    zerolog.Logger
}

// NewClient creates a Client. cfg may be nil.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		var creds envCredentials
		// Decode errors only mean the variable is unset.
		_ = envdecode.Decode(&creds)
		apiKey = creds.APIKey
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
		if apiKey != "" {
			h.Set(apiKeyHeader, apiKey)
		}
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

	return &Client{
		transport: transport,
		apiKey:    apiKey,
		logger:    logger,
	}, nil
}

// HasAPIKey reports whether the client is authenticated.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

func queryValues(p SearchParams) (url.Values, error) {
	v, err := query.Values(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search params: %w", err)
	}
	return v, nil
}

// Search returns one page of search results.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.Purity.ContainsNSFW() && !c.HasAPIKey() {
		return nil, &pkgerrs.AuthError{Message: "NSFW content requires an API key"}
	}

	q, err := queryValues(params)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := c.transport.GetJSON(ctx, "search", q, &result); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("page", result.Meta.CurrentPage).
		Int("last_page", result.Meta.LastPage).
		Int("count", len(result.Data)).
		Msg("wallhaven search page")
	return &result, nil
}

// Wallpaper fetches the full detail for a single wallpaper.
func (c *Client) Wallpaper(ctx context.Context, id string) (*Wallpaper, error) {
	if id == "" {
		return nil, &pkgerrs.ValidationError{Field: "id", Message: "must not be empty"}
	}

	var resp struct {
		Data *Wallpaper `json:"data"`
	}
	if err := c.transport.GetJSON(ctx, "w/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Tag fetches metadata for a tag by numeric ID.
func (c *Client) Tag(ctx context.Context, id int) (*Tag, error) {
	var resp struct {
		Data *Tag `json:"data"`
	}
	if err := c.transport.GetJSON(ctx, fmt.Sprintf("tag/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Settings fetches the authenticated user's browsing settings.
// Requires an API key.
func (c *Client) Settings(ctx context.Context) (*UserSettings, error) {
	if !c.HasAPIKey() {
		return nil, &pkgerrs.AuthError{Message: "settings require an API key"}
	}

	var resp struct {
		Data *UserSettings `json:"data"`
	}
	if err := c.transport.GetJSON(ctx, "settings", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Collections lists a user's public collections. An empty username lists
// the authenticated user's own collections, including private ones, and
// requires an API key.
func (c *Client) Collections(ctx context.Context, username string) ([]*Collection, error) {
	ref := "collections"
	if username != "" {
		ref = "collections/" + url.PathEscape(username)
	} else if !c.HasAPIKey() {
		return nil, &pkgerrs.AuthError{Message: "listing own collections requires an API key"}
	}

	var resp struct {
		Data []*Collection `json:"data"`
	}
	if err := c.transport.GetJSON(ctx, ref, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Collection returns one page of the wallpapers in a user's collection.
func (c *Client) Collection(ctx context.Context, username string, id int, page int) (*CollectionListing, error) {
	if username == "" {
		return nil, &pkgerrs.ValidationError{Field: "username", Message: "must not be empty"}
	}

	var q url.Values
	if page > 1 {
		q = url.Values{"page": []string{fmt.Sprint(page)}}
	}

	var listing CollectionListing
	ref := fmt.Sprintf("collections/%s/%d", url.PathEscape(username), id)
	if err := c.transport.GetJSON(ctx, ref, q, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// Download fetches the full-resolution image bytes for a wallpaper.
func (c *Client) Download(ctx context.Context, w *Wallpaper) ([]byte, error) {
	if w == nil || w.Path == "" {
		return nil, &pkgerrs.ValidationError{Field: "Path", Message: "wallpaper has no image URL"}
	}
	return c.transport.Download(ctx, w.Path, nil)
}

// DownloadToFile downloads a wallpaper and writes it to path.
func (c *Client) DownloadToFile(ctx context.Context, w *Wallpaper, path string) error {
	data, err := c.Download(ctx, w)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
