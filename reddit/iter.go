package reddit

import (
	"context"

	"github.com/wallgrab/wallgrab/pkg/paginate"
)

// cursorStrategy advances cursor pagination. Iteration ends when the page
// has no forward cursor or parsed down to zero posts; a cursor on an empty
// page is not followed.
type cursorStrategy struct{}

func (cursorStrategy) Done(page *Listing) bool {
	return page.After == "" || len(page.Posts) == 0
}

func (cursorStrategy) Next(prev ListingParams, page *Listing) ListingParams {
	return prev.WithAfter(page.After)
}

// Pages returns an iterator over whole listing pages, starting at
// params.After (the listing head when unset).
func (c *Client) Pages(ctx context.Context, params ListingParams) *paginate.PageIterator[ListingParams, *Listing] {
	return paginate.NewPageIterator(ctx, c.Listing, cursorStrategy{}, params)
}

// Media returns an iterator over individual media items across page
// boundaries. Gallery posts are expanded in place, one item per image,
// each re-checked against the media-type and NSFW filters. A failed
// expansion drops that gallery, logs a warning and increments Skipped().
func (c *Client) Media(ctx context.Context, params ListingParams) *paginate.MediaIterator[ListingParams, *Listing, *Post] {
	nsfwOK := func(p *Post) bool {
		return params.IncludeNSFW || !p.NSFW
	}
	filter := func(p *Post) bool {
		return nsfwOK(p) && params.MediaType.Matches(p.MediaType)
	}
	expand := func(ctx context.Context, p *Post) ([]*Post, bool, error) {
		if !p.IsGallery || p.GalleryID != "" {
			return nil, false, nil
		}
		d, err := c.fetchPostData(ctx, p.ID)
		if err != nil {
			return nil, true, err
		}
		return expandGallery(d), true, nil
	}

	return paginate.NewMediaIterator(paginate.MediaConfig[ListingParams, *Listing, *Post]{
		Pages:     c.Pages(ctx, params),
		Items:     func(page *Listing) []*Post { return page.Posts },
		PreFilter: nsfwOK,
		Filter:    filter,
		Expand:    expand,
		Logger:    c.logger,
	})
}
