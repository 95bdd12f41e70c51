package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

const (
	// DefaultTokenURL is Reddit's OAuth2 token endpoint.
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	// tokenExpiryBuffer refreshes the token this long before it actually
	// expires so in-flight requests never race the expiry.
	tokenExpiryBuffer = 60 * time.Second

	defaultTokenTTL = 3600
)

// Authenticator fetches and caches an OAuth2 application-only token via the
// client-credentials grant. Safe for concurrent use.
type Authenticator struct {
	client       *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	userAgent    string

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewAuthenticator creates an authenticator against tokenURL. An empty
// tokenURL uses the default Reddit endpoint.
func NewAuthenticator(httpClient *http.Client, tokenURL, clientID, clientSecret, userAgent string) *Authenticator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Authenticator{
		client:       httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Token returns the cached access token, fetching a fresh one when the
// cache is empty or within the expiry buffer.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.expiry) {
		return a.token, nil
	}
	return a.fetchToken(ctx)
}

// fetchToken performs the client-credentials grant. Caller must hold a.mu.
func (a *Authenticator) fetchToken(ctx context.Context) (string, error) {
	form := "grant_type=client_credentials"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form))
	if err != nil {
		return "", &pkgerrs.AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}
	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &pkgerrs.AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read token response: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Message:    "token request rejected",
			Body:       string(bodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	if tokenResp.AccessToken == "" {
		return "", &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	ttl := tokenResp.ExpiresIn
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	a.token = tokenResp.AccessToken
	a.expiry = time.Now().Add(time.Duration(ttl)*time.Second - tokenExpiryBuffer)
	return a.token, nil
}
