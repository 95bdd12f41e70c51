package wallhaven

import (
	"context"

	"github.com/wallgrab/wallgrab/pkg/paginate"
)

// pageStrategy advances page-number pagination. A seed returned in the
// response meta is carried into every subsequent request so random-sort
// ordering stays stable across pages.
type pageStrategy struct{}

func (pageStrategy) Done(page *SearchResult) bool {
	return page.Meta.CurrentPage >= page.Meta.LastPage
}

func (pageStrategy) Next(prev SearchParams, page *SearchResult) SearchParams {
	next := prev.WithPage(page.Meta.CurrentPage + 1)
	if page.Meta.Seed != "" {
		next = next.WithSeed(page.Meta.Seed)
	}
	return next
}

// Pages returns an iterator over whole search result pages, starting at
// params.Page (the first page when unset).
func (c *Client) Pages(ctx context.Context, params SearchParams) *paginate.PageIterator[SearchParams, *SearchResult] {
	return paginate.NewPageIterator(ctx, c.Search, pageStrategy{}, params)
}

// Media returns an iterator over individual wallpapers across page
// boundaries. Category and purity filtering happens server-side via the
// params.
func (c *Client) Media(ctx context.Context, params SearchParams) *paginate.MediaIterator[SearchParams, *SearchResult, *Wallpaper] {
	return paginate.NewMediaIterator(paginate.MediaConfig[SearchParams, *SearchResult, *Wallpaper]{
		Pages:  c.Pages(ctx, params),
		Items:  func(page *SearchResult) []*Wallpaper { return page.Data },
		Logger: c.logger,
	})
}
