package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		AccessKey:         "test-key",
		BaseURL:           baseURL,
		RequestsPerMinute: 60000,
		Burst:             1000,
	})
	require.NoError(t, err)
	return client
}

func photoJSON(id string) map[string]any {
	return map[string]any{
		"id":         id,
		"created_at": "2024-05-01T12:00:00Z",
		"width":      4000,
		"height":     3000,
		"urls": map[string]any{
			"raw":     "https://images.unsplash.com/" + id + "?raw",
			"full":    "https://images.unsplash.com/" + id,
			"regular": "https://images.unsplash.com/" + id + "?w=1080",
			"small":   "https://images.unsplash.com/" + id + "?w=400",
			"thumb":   "https://images.unsplash.com/" + id + "?w=200",
		},
		"links": map[string]any{
			"self":              "https://api.unsplash.com/photos/" + id,
			"html":              "https://unsplash.com/photos/" + id,
			"download":          "https://unsplash.com/photos/" + id + "/download",
			"download_location": "https://api.unsplash.com/photos/" + id + "/download",
		},
		"user": map[string]any{"id": "u1", "username": "someone", "name": "Some One"},
	}
}

// searchHandler serves totalPages pages of perPage photos each.
func searchHandler(t *testing.T, totalPages, perPage int, requests *[]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
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

		results := make([]map[string]any, 0, perPage)
		for i := 0; i < perPage; i++ {
			results = append(results, photoJSON(fmt.Sprintf("p%d-%d", page, i)))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"total":       totalPages * perPage,
			"total_pages": totalPages,
			"results":     results,
		})
	}
}

func TestNewClientRequiresAccessKey(t *testing.T) {
	t.Setenv("UNSPLASH_ACCESS_KEY", "")

	_, err := NewClient(&Config{})
	var ae *pkgerrs.AuthError
	require.ErrorAs(t, err, &ae)
}

func TestSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "forest", r.URL.Query().Get("query"))
		searchHandler(t, 1, 2, nil)(w, r)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	result, err := client.Search(context.Background(), SearchParams{Query: "forest"})
	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 1, result.Page, "client stamps the requested page")
	assert.Equal(t, "p1-0", result.Results[0].ID)
	assert.Equal(t, "4000x3000", result.Results[0].Resolution())
}

func TestSearchValidation(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")

	tests := []struct {
		name   string
		params SearchParams
	}{
		{name: "missing query", params: SearchParams{}},
		{name: "per_page too large", params: SearchParams{Query: "x", PerPage: 31}},
		{name: "bad order_by", params: SearchParams{Query: "x", OrderBy: "newest"}},
		{name: "bad orientation", params: SearchParams{Query: "x", Orientation: "panorama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Search(context.Background(), tt.params)
			var verr *pkgerrs.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestPagesStopAtTotalPages(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(searchHandler(t, 2, 2, &requests))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	pages, err := client.Pages(context.Background(), SearchParams{Query: "x"}).Collect(0)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Len(t, requests, 2, "no fetch past total_pages")
	assert.Equal(t, 1, pages[0].Page)
	assert.Equal(t, 2, pages[1].Page)
}

func TestPagesEmptyResults(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(searchHandler(t, 0, 0, &requests))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	pages, err := client.Pages(context.Background(), SearchParams{Query: "nothing"}).Collect(0)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].Results)
	assert.Len(t, requests, 1, "an empty result set takes exactly one fetch")
}

func TestMediaFlattensPages(t *testing.T) {
	ts := httptest.NewServer(searchHandler(t, 2, 3, nil))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	photos, err := client.Media(context.Background(), SearchParams{Query: "x"}).Collect(0)
	require.NoError(t, err)
	require.Len(t, photos, 6)
	assert.Equal(t, "p1-0", photos[0].ID)
	assert.Equal(t, "p2-2", photos[5].ID)
}

func TestPhoto(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/photos/abc", r.URL.Path)
		p := photoJSON("abc")
		p["downloads"] = 1234
		p["exif"] = map[string]any{"make": "Canon", "iso": 100}
		json.NewEncoder(w).Encode(p)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	photo, err := client.Photo(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", photo.ID)
	assert.Equal(t, 1234, photo.Downloads)
	require.NotNil(t, photo.Exif)
	assert.Equal(t, "Canon", photo.Exif.Make)
}

func TestRandomValidation(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")

	_, err := client.Random(context.Background(), &RandomParams{
		Query:       "cats",
		Collections: []string{"123"},
	})
	var verr *pkgerrs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Query", verr.Field)
}

func TestDownloadIsTwoStep(t *testing.T) {
	var trackingHits, cdnHits int
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photos/abc/download":
			trackingHits++
			assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"), "tracking request is authenticated")
			json.NewEncoder(w).Encode(map[string]any{"url": ts.URL + "/cdn/abc.jpg"})
		case "/cdn/abc.jpg":
			cdnHits++
			w.Write([]byte("jpeg-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)

	photo := &Photo{ID: "abc"}
	photo.Links.DownloadLocation = ts.URL + "/photos/abc/download"

	data, err := client.Download(context.Background(), photo)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Equal(t, 1, trackingHits, "download must hit the tracking endpoint")
	assert.Equal(t, 1, cdnHits)
}
