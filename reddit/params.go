package reddit

import (
	"net/url"
	"strconv"

	"github.com/wallgrab/wallgrab"
	"github.com/wallgrab/wallgrab/internal"
)

// Sort is a subreddit listing sort order.
type Sort string

const (
	SortHot           Sort = "hot"
	SortNew           Sort = "new"
	SortTop           Sort = "top"
	SortRising        Sort = "rising"
	SortControversial Sort = "controversial"
)

// TimeFilter narrows top and controversial listings. It is ignored for
// other sorts, matching the API.
type TimeFilter string

const (
	TimeHour  TimeFilter = "hour"
	TimeDay   TimeFilter = "day"
	TimeWeek  TimeFilter = "week"
	TimeMonth TimeFilter = "month"
	TimeYear  TimeFilter = "year"
	TimeAll   TimeFilter = "all"
)

const defaultLimit = 25

// ListingParams are the parameters for Listing.
type ListingParams struct {
	// Subreddit to list, without the "r/" prefix. Multireddits work with
	// the usual "pics+earthporn" syntax. Required.
	Subreddit string `validate:"required"`

	// Sort defaults to hot.
	Sort Sort `validate:"omitempty,oneof=hot new top rising controversial"`

	// TimeFilter is only sent for top and controversial sorts.
	TimeFilter TimeFilter `validate:"omitempty,oneof=hour day week month year all"`

	// Limit is the page size, 1 to 100. Defaults to 25.
	Limit int `validate:"omitempty,min=1,max=100"`

	// After is the forward pagination cursor (a fullname like "t3_abc").
	After string

	// MediaType keeps only matching items in Media iteration. The zero
	// value and MediaTypeAny keep everything.
	MediaType wallgrab.MediaType `validate:"omitempty,oneof=image video gif any"`

	// IncludeNSFW keeps posts marked over_18 in Media iteration.
	IncludeNSFW bool
}

// Validate checks the params without sending a request.
func (p ListingParams) Validate() error {
	return internal.ValidateParams(p)
}

// WithAfter returns a copy of the params starting after the given cursor.
func (p ListingParams) WithAfter(after string) ListingParams {
	p.After = after
	return p
}

// sort returns the effective sort order.
func (p ListingParams) sort() Sort {
	if p.Sort == "" {
		return SortHot
	}
	return p.Sort
}

// query builds the listing query string. raw_json=1 disables Reddit's HTML
// entity escaping in URLs.
func (p ListingParams) query() url.Values {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	if p.After != "" {
		q.Set("after", p.After)
	}
	if p.TimeFilter != "" && (p.sort() == SortTop || p.sort() == SortControversial) {
		q.Set("t", string(p.TimeFilter))
	}
	return q
}
