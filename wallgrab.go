package wallgrab

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MediaType classifies a media item.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeGIF   MediaType = "gif"
	MediaTypeAny   MediaType = "any"
)

// Matches reports whether an item of type t passes a filter of type m.
// The zero value and MediaTypeAny match everything.
func (m MediaType) Matches(t MediaType) bool {
	return m == "" || m == MediaTypeAny || m == t
}

// Downloader downloads the raw bytes for one media item. All three source
// clients satisfy it for their item type.
type Downloader[I any] interface {
	Download(ctx context.Context, item I) ([]byte, error)
}

// DownloadAll downloads every item with at most workers concurrent fetches.
// Results are returned in item order. The first failure cancels the
// remaining downloads and is returned.
func DownloadAll[I any](ctx context.Context, src Downloader[I], items []I, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([][]byte, len(items))
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			data, err := src.Download(ctx, item)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
