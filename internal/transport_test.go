package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

func newTestTransport(t *testing.T, serverURL string, retry RetryPolicy) *Transport {
	t.Helper()
	// Generous throttle so tests never sleep on the limiter.
	tr, err := NewTransport(testHTTPClient(), serverURL, nil, retry, &RateLimitConfig{RequestsPerMinute: 60000, Burst: 1000}, zerolog.Nop())
	require.NoError(t, err)
	return tr
}

func testHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

func TestTransportGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value": 42}`))
	}))
	defer ts.Close()

	tr := newTestTransport(t, ts.URL+"/api/", RetryPolicy{})

	var out struct {
		Value int `json:"value"`
	}
	err := tr.GetJSON(context.Background(), "items", map[string][]string{"page": {"2"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
}

func TestTransportSendsHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	headers := func(ctx context.Context) (http.Header, error) {
		h := http.Header{}
		h.Set("X-API-Key", "secret")
		return h, nil
	}
	tr, err := NewTransport(testHTTPClient(), ts.URL, headers, RetryPolicy{}, nil, zerolog.Nop())
	require.NoError(t, err)

	var out struct{}
	require.NoError(t, tr.GetJSON(context.Background(), "", nil, &out))
}

func TestTransportRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	retry := RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}
	tr := newTestTransport(t, ts.URL, retry)

	var out struct {
		OK bool `json:"ok"`
	}
	err := tr.GetJSON(context.Background(), "", nil, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load(), "two 429s then success should take three requests")
}

func TestTransportRateLimitFailFast(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	tr := newTestTransport(t, ts.URL, RetryPolicy{})

	var out struct{}
	err := tr.GetJSON(context.Background(), "", nil, &out)

	var rle *pkgerrs.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 7*time.Second, rle.RetryAfter)
	assert.Equal(t, int32(1), calls.Load(), "fail-fast policy must not retry")
}

func TestTransportRateLimitExhausted(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	retry := RetryPolicy{MaxRetries: 2, InitialDelay: time.Millisecond}
	tr := newTestTransport(t, ts.URL, retry)

	var out struct{}
	err := tr.GetJSON(context.Background(), "", nil, &out)

	var rle *pkgerrs.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, int32(3), calls.Load(), "initial attempt plus two retries")
}

func TestTransportStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to AuthError",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				var ae *pkgerrs.AuthError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, http.StatusUnauthorized, ae.StatusCode)
			},
		},
		{
			name:   "403 maps to AuthError",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var ae *pkgerrs.AuthError
				require.ErrorAs(t, err, &ae)
			},
		},
		{
			name:   "404 maps to NotFoundError",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				var nfe *pkgerrs.NotFoundError
				require.ErrorAs(t, err, &nfe)
			},
		},
		{
			name:   "500 maps to APIError",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var ae *pkgerrs.APIError
				require.ErrorAs(t, err, &ae)
				assert.Equal(t, http.StatusInternalServerError, ae.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			tr := newTestTransport(t, ts.URL, RetryPolicy{})
			var out struct{}
			err := tr.GetJSON(context.Background(), "", nil, &out)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestTransportContextCancelledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	retry := RetryPolicy{MaxRetries: 1, InitialDelay: 10 * time.Second}
	tr := newTestTransport(t, ts.URL, retry)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out struct{}
	err := tr.GetJSON(ctx, "", nil, &out)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransportDownload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "agent/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("image-bytes"))
	}))
	defer ts.Close()

	tr := newTestTransport(t, ts.URL, RetryPolicy{})
	headers := http.Header{}
	headers.Set("User-Agent", "agent/1.0")

	data, err := tr.Download(context.Background(), ts.URL+"/file.jpg", headers)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestTransportDownloadError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	tr := newTestTransport(t, ts.URL, RetryPolicy{})
	_, err := tr.Download(context.Background(), ts.URL+"/file.jpg", nil)

	var ae *pkgerrs.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadGateway, ae.StatusCode)
}
