package wallhaven

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

func newTestClient(t *testing.T, baseURL, apiKey string) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		APIKey:            apiKey,
		BaseURL:           baseURL,
		RequestsPerMinute: 60000,
		Burst:             1000,
	})
	require.NoError(t, err)
	return client
}

// searchHandler serves lastPage pages of perPage wallpapers each, echoing
// seed when the request carries one.
func searchHandler(t *testing.T, lastPage, perPage int, seed string, requests *[]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if requests != nil {
			*requests = append(*requests, r.URL.RawQuery)
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}

		data := make([]map[string]any, 0, perPage)
		for i := 0; i < perPage; i++ {
			id := fmt.Sprintf("w%d-%d", page, i)
			data = append(data, map[string]any{
				"id":          id,
				"url":         "https://wallhaven.cc/w/" + id,
				"path":        "https://w.wallhaven.cc/full/" + id + ".jpg",
				"purity":      "sfw",
				"category":    "general",
				"dimension_x": 1920,
				"dimension_y": 1080,
			})
		}

		meta := map[string]any{
			"current_page": page,
			"last_page":    lastPage,
			"per_page":     perPage,
			"total":        lastPage * perPage,
			"query":        r.URL.Query().Get("q"),
		}
		if seed != "" {
			meta["seed"] = seed
		}

		json.NewEncoder(w).Encode(map[string]any{"data": data, "meta": meta})
	}
}

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "mountains", r.URL.Query().Get("q"))
		assert.Equal(t, "my-key", r.Header.Get("X-API-Key"))
		searchHandler(t, 1, 2, "", nil)(w, r)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "my-key")

	result, err := client.Search(context.Background(), SearchParams{Query: "mountains"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
	assert.Equal(t, 1, result.Meta.CurrentPage)
	assert.Equal(t, "w1-0", result.Data[0].ID)
	assert.Equal(t, "mountains", result.Meta.Query.Text)
}

func TestSearchNSFWRequiresKey(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		searchHandler(t, 1, 1, "", nil)(w, r)
	}))
	defer ts.Close()

	t.Setenv("WALLHAVEN_API_KEY", "")
	client := newTestClient(t, ts.URL, "")

	_, err := client.Search(context.Background(), SearchParams{
		Purity: PurityList{PuritySFW, PurityNSFW},
	})

	var ae *pkgerrs.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, int32(0), calls.Load(), "must fail before any request")
}

func TestSearchValidation(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0", "")

	tests := []struct {
		name   string
		params SearchParams
		field  string
	}{
		{
			name:   "topRange without toplist",
			params: SearchParams{TopRange: "1w"},
			field:  "TopRange",
		},
		{
			name:   "bad topRange value",
			params: SearchParams{Sorting: SortToplist, TopRange: "2w"},
			field:  "TopRange",
		},
		{
			name:   "bad resolution",
			params: SearchParams{AtLeast: "fullhd"},
			field:  "AtLeast",
		},
		{
			name:   "bad ratio",
			params: SearchParams{Ratios: []string{"ultrawide"}},
			field:  "Ratios",
		},
		{
			name:   "bad page",
			params: SearchParams{Page: -1},
			field:  "Page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Search(context.Background(), tt.params)
			var verr *pkgerrs.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestSearchParamsEncoding(t *testing.T) {
	params := SearchParams{
		Query:      "nature",
		Categories: CategoryList{CategoryGeneral, CategoryPeople},
		Purity:     PurityList{PuritySFW, PuritySketchy},
		Sorting:    SortToplist,
		TopRange:   "1M",
		AtLeast:    "2560x1440",
		Ratios:     []string{"16x9", "16x10"},
	}

	v, err := query.Values(params)
	require.NoError(t, err)

	assert.Equal(t, "nature", v.Get("q"))
	assert.Equal(t, "101", v.Get("categories"))
	assert.Equal(t, "110", v.Get("purity"))
	assert.Equal(t, "toplist", v.Get("sorting"))
	assert.Equal(t, "1M", v.Get("topRange"))
	assert.Equal(t, "2560x1440", v.Get("atleast"))
	assert.Equal(t, "16x9,16x10", v.Get("ratios"))
	assert.Empty(t, v.Get("page"))
}

func TestPagesVisitsEachPageOnce(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(searchHandler(t, 3, 2, "", &requests))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "")

	it := client.Pages(context.Background(), SearchParams{Query: "x"})
	pages, err := it.Collect(0)
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Len(t, requests, 3, "each page fetched exactly once")
	for i, page := range pages {
		assert.Equal(t, i+1, page.Meta.CurrentPage)
	}
}

func TestPagesCarriesSeedForward(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(searchHandler(t, 3, 1, "abc123", &requests))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "")

	it := client.Pages(context.Background(), SearchParams{Sorting: SortRandom})
	_, err := it.Collect(0)
	require.NoError(t, err)

	require.Len(t, requests, 3)
	assert.NotContains(t, requests[0], "seed=", "first request has no seed yet")
	for _, raw := range requests[1:] {
		assert.Contains(t, raw, "seed=abc123", "seed must propagate to every later request")
	}
}

func TestMediaFlattensPages(t *testing.T) {
	ts := httptest.NewServer(searchHandler(t, 2, 3, "", nil))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "")

	it := client.Media(context.Background(), SearchParams{Query: "x"})
	walls, err := it.Collect(0)
	require.NoError(t, err)

	require.Len(t, walls, 6)
	assert.Equal(t, "w1-0", walls[0].ID)
	assert.Equal(t, "w2-2", walls[5].ID)
}

func TestWallpaper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/w/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":   "abc123",
				"path": "https://w.wallhaven.cc/full/abc123.jpg",
				"tags": []map[string]any{{"id": 1, "name": "nature"}},
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "")

	w, err := client.Wallpaper(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", w.ID)
	require.Len(t, w.Tags, 1)
	assert.Equal(t, "nature", w.Tags[0].Name)
}

func TestWallpaperNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "")

	_, err := client.Wallpaper(context.Background(), "missing")
	var nfe *pkgerrs.NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestSettingsRequireKey(t *testing.T) {
	t.Setenv("WALLHAVEN_API_KEY", "")
	client := newTestClient(t, "http://127.0.0.1:0", "")

	_, err := client.Settings(context.Background())
	var ae *pkgerrs.AuthError
	require.ErrorAs(t, err, &ae)
}

func TestCollections(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/someone", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": 7, "label": "Favorites", "count": 12}},
		})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "")

	cols, err := client.Collections(context.Background(), "someone")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "Favorites", cols[0].Label)
}

func TestDownload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/full/abc.jpg" {
			w.Write([]byte("jpeg-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, "")

	data, err := client.Download(context.Background(), &Wallpaper{
		ID:   "abc",
		Path: ts.URL + "/full/abc.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	_, err = client.Download(context.Background(), &Wallpaper{ID: "no-path"})
	var verr *pkgerrs.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRateLimitRetry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		searchHandler(t, 1, 1, "", nil)(w, r)
	}))
	defer ts.Close()

	client, err := NewClient(&Config{
		BaseURL:           ts.URL,
		MaxRetries:        1,
		RetryDelay:        time.Millisecond,
		RequestsPerMinute: 60000,
		Burst:             1000,
	})
	require.NoError(t, err)

	result, err := client.Search(context.Background(), SearchParams{Query: "x"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, int32(2), calls.Load())
}
