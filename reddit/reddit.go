// Package reddit is a media-focused client for the Reddit API. It
// authenticates with the OAuth2 client-credentials grant, parses subreddit
// listings down to media posts, and expands gallery posts into one item
// per image during Media iteration.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/rs/zerolog"

	"github.com/wallgrab/wallgrab"
	"github.com/wallgrab/wallgrab/internal"
	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

const (
	// DefaultBaseURL is the authenticated API root.
	DefaultBaseURL = "https://oauth.reddit.com/"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	// ClientID and ClientSecret are the script-app credentials. Required;
	// fall back to REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET.
	ClientID     string
	ClientSecret string

	// UserAgent identifies the app per Reddit's API rules, e.g.
	// "linux:myapp:1.0 (by /u/me)". Required; falls back to
	// REDDIT_USER_AGENT.
	UserAgent string

	// BaseURL and TokenURL override the API endpoints, mainly for tests.
	BaseURL  string
	TokenURL string

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
	ClientID     string `env:"REDDIT_CLIENT_ID"`
	ClientSecret string `env:"REDDIT_CLIENT_SECRET"`
	UserAgent    string `env:"REDDIT_USER_AGENT"`
}

// Client is a Reddit API client. Safe for concurrent use; the token cache
// is shared across goroutines.
type Client struct {
	transport *internal.Transport
	auth      *internal.Authenticator
	userAgent string
	logger    zerolog.Logger
}

// NewClient creates a Client. Returns an AuthError when any credential is
// missing. The first token is fetched lazily on the first request.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	var creds envCredentials
	_ = envdecode.Decode(&creds)

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = creds.ClientID
	}
	clientSecret := cfg.ClientSecret
	if clientSecret == "" {
		clientSecret = creds.ClientSecret
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = creds.UserAgent
	}

	if clientID == "" || clientSecret == "" {
		return nil, &pkgerrs.AuthError{Message: "client id and secret are required (set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET)"}
	}
	if userAgent == "" {
		return nil, &pkgerrs.AuthError{Message: "user agent is required (set REDDIT_USER_AGENT)"}
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

	auth := internal.NewAuthenticator(httpClient, cfg.TokenURL, clientID, clientSecret, userAgent)

	headers := func(ctx context.Context) (http.Header, error) {
		token, err := auth.Token(ctx)
		if err != nil {
			return nil, err
		}
		h := http.Header{}
		h.Set("Authorization", "Bearer "+token)
		h.Set("User-Agent", userAgent)
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
		auth:      auth,
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// Listing returns one page of a subreddit listing, parsed down to media
// posts. Gallery posts appear as placeholders; Media expands them.
func (c *Client) Listing(ctx context.Context, params ListingParams) (*Listing, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("r/%s/%s", params.Subreddit, params.sort())

	var envelope listingEnvelope
	if err := c.transport.GetJSON(ctx, ref, params.query(), &envelope); err != nil {
		return nil, err
	}

	listing := &Listing{
		After:  envelope.Data.After,
		Before: envelope.Data.Before,
		Dist:   envelope.Data.Dist,
	}
	for _, child := range envelope.Data.Children {
		var d postData
		if err := json.Unmarshal(child.Data, &d); err != nil {
			c.logger.Warn().Err(err).Msg("skipping unparseable listing child")
			continue
		}
		if post := postFromData(&d); post != nil {
			listing.Posts = append(listing.Posts, post)
		}
	}

	c.logger.Debug().
		Str("subreddit", params.Subreddit).
		Int("dist", listing.Dist).
		Int("media", len(listing.Posts)).
		Str("after", listing.After).
		Msg("reddit listing page")
	return listing, nil
}

// Post fetches a single post by id. Returns nil when the post exists but
// has no supported media.
func (c *Client) Post(ctx context.Context, id string) (*Post, error) {
	d, err := c.fetchPostData(ctx, id)
	if err != nil {
		return nil, err
	}
	return postFromData(d), nil
}

// fetchPostData fetches a post's full t3 thing via the comments endpoint,
// whose response is a two-element array of listings: the post, then its
// comment tree.
func (c *Client) fetchPostData(ctx context.Context, id string) (*postData, error) {
	if id == "" {
		return nil, &pkgerrs.ValidationError{Field: "id", Message: "must not be empty"}
	}

	q := url.Values{}
	q.Set("raw_json", "1")
	q.Set("limit", "1")

	var parts []listingEnvelope
	if err := c.transport.GetJSON(ctx, "comments/"+url.PathEscape(id), q, &parts); err != nil {
		return nil, err
	}
	if len(parts) == 0 || len(parts[0].Data.Children) == 0 {
		return nil, &pkgerrs.NotFoundError{Resource: "post " + id}
	}

	var d postData
	if err := json.Unmarshal(parts[0].Data.Children[0].Data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse post %q: %w", id, err)
	}
	return &d, nil
}

// Gallery fetches a gallery post and expands it into one Post per image.
func (c *Client) Gallery(ctx context.Context, id string) ([]*Post, error) {
	d, err := c.fetchPostData(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsGallery {
		return nil, &pkgerrs.ValidationError{Field: "id", Message: fmt.Sprintf("post %q is not a gallery", id)}
	}
	return expandGallery(d), nil
}

// Download fetches the media bytes for a post. Videos and GIFs use the
// fallback video URL; everything else uses the direct media URL.
func (c *Client) Download(ctx context.Context, p *Post) ([]byte, error) {
	if p == nil {
		return nil, &pkgerrs.ValidationError{Field: "post", Message: "must not be nil"}
	}

	mediaURL := p.URL
	if p.MediaType == wallgrab.MediaTypeVideo || p.MediaType == wallgrab.MediaTypeGIF {
		if p.VideoURL != "" {
			mediaURL = p.VideoURL
		}
	}
	if mediaURL == "" {
		return nil, &pkgerrs.ValidationError{
			Field:   "URL",
			Message: fmt.Sprintf("post %q has no media URL; gallery posts must be expanded first", p.ID),
		}
	}

	headers := http.Header{}
	headers.Set("User-Agent", c.userAgent)
	return c.transport.Download(ctx, mediaURL, headers)
}
