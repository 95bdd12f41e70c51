package unsplash

import (
	"context"

	"github.com/wallgrab/wallgrab/pkg/paginate"
)

// pageStrategy advances page-number pagination using the total_pages count
// the search endpoint returns.
type pageStrategy struct{}

func (pageStrategy) Done(page *SearchResult) bool {
	return page.Page >= page.TotalPages
}

func (pageStrategy) Next(prev SearchParams, page *SearchResult) SearchParams {
	return prev.WithPage(page.Page + 1)
}

// Pages returns an iterator over whole search result pages, starting at
// params.Page (the first page when unset).
func (c *Client) Pages(ctx context.Context, params SearchParams) *paginate.PageIterator[SearchParams, *SearchResult] {
	return paginate.NewPageIterator(ctx, c.Search, pageStrategy{}, params)
}

// Media returns an iterator over individual photos across page boundaries.
func (c *Client) Media(ctx context.Context, params SearchParams) *paginate.MediaIterator[SearchParams, *SearchResult, *Photo] {
	return paginate.NewMediaIterator(paginate.MediaConfig[SearchParams, *SearchResult, *Photo]{
		Pages:  c.Pages(ctx, params),
		Items:  func(page *SearchResult) []*Photo { return page.Results },
		Logger: c.logger,
	})
}
