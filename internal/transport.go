package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

const (
	// DefaultRequestsPerMinute is the proactive throttle applied when the
	// caller does not configure one.
	DefaultRequestsPerMinute = 60.0

	// DefaultBurstSize allows short request bursts before throttling.
	DefaultBurstSize = 10

	errorBodyLimit = 4096
)

// HeaderFunc supplies the headers for one request attempt. It is called
// before every attempt so refreshed credentials are picked up on retry.
type HeaderFunc func(ctx context.Context) (http.Header, error)

// RateLimitConfig controls the proactive client-side throttle.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained request rate.
	RequestsPerMinute float64
	// Burst is the number of requests allowed to exceed the sustained
	// rate momentarily.
	Burst int
}

// Transport issues throttled, retry-aware requests against one API base URL
// and maps error statuses to the domain error types. It is safe for
// concurrent use.
type Transport struct {
	client  *http.Client
	baseURL *url.URL
	headers HeaderFunc
	retry   RetryPolicy
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewTransport creates a transport rooted at baseURL. headers may be nil
// when no per-request headers are needed.
func NewTransport(httpClient *http.Client, baseURL string, headers HeaderFunc, retry RetryPolicy, rateCfg *RateLimitConfig, logger zerolog.Logger) (*Transport, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	perMinute := DefaultRequestsPerMinute
	burst := DefaultBurstSize
	if rateCfg != nil {
		if rateCfg.RequestsPerMinute > 0 {
			perMinute = rateCfg.RequestsPerMinute
		}
		if rateCfg.Burst > 0 {
			burst = rateCfg.Burst
		}
	}

	return &Transport{
		client:  httpClient,
		baseURL: parsed,
		headers: headers,
		retry:   retry,
		limiter: rate.NewLimiter(rate.Limit(perMinute/60.0), burst),
		logger:  logger,
	}, nil
}

// GetJSON issues a GET for ref (a path relative to the base URL, or an
// absolute URL) with the given query values merged in, and decodes the
// response body into v.
func (t *Transport) GetJSON(ctx context.Context, ref string, query url.Values, v any) error {
	resp, err := t.Do(ctx, http.MethodGet, ref, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", resp.Request.URL.Path, err)
	}
	return nil
}

// Do issues a request and returns the response with an open body. Statuses
// >= 400 are mapped to domain errors; 429 responses are retried per the
// retry policy before a RateLimitError is returned.
func (t *Transport) Do(ctx context.Context, method, ref string, query url.Values) (*http.Response, error) {
	u, err := t.baseURL.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve request URL %q: %w", ref, err)
	}
	if query != nil {
		merged := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				merged.Add(k, v)
			}
		}
		u.RawQuery = merged.Encode()
	}

	for attempt := 0; ; attempt++ {
		resp, err := t.doOnce(ctx, method, u.String())
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if t.retry.ShouldRetry(resp.StatusCode, attempt) {
				delay := t.retry.Delay(attempt)
				t.logger.Debug().
					Str("url", u.Path).
					Int("attempt", attempt).
					Dur("delay", delay).
					Msg("rate limited, backing off")
				drain(resp)
				if err := Sleep(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
			retryAfter := RetryAfter(resp)
			drain(resp)
			return nil, &pkgerrs.RateLimitError{RetryAfter: retryAfter}
		}

		if resp.StatusCode >= 400 {
			return nil, t.statusError(resp)
		}

		return resp, nil
	}
}

func (t *Transport) doOnce(ctx context.Context, method, u string) (*http.Response, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if t.headers != nil {
		h, err := t.headers(ctx)
		if err != nil {
			return nil, err
		}
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}
	}

	t.logger.Debug().Str("method", method).Str("url", req.URL.Path).Msg("request")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// statusError consumes the response body and returns the domain error for
// its status code.
func (t *Transport) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Message:    "authentication failed",
			Body:       string(body),
		}
	case http.StatusNotFound:
		return &pkgerrs.NotFoundError{Resource: resp.Request.URL.String()}
	default:
		return &pkgerrs.APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
}

// Download fetches the raw bytes at an absolute URL, typically a media CDN
// on a different host than the API. The proactive throttle does not apply.
func (t *Transport) Download(ctx context.Context, rawURL string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &pkgerrs.APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("download of %s failed", rawURL),
		}
	}

	return io.ReadAll(resp.Body)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
