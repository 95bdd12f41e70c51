// Package paginate implements the pagination driver shared by every source
// client: a page iterator that walks an upstream listing under the control
// of a per-source strategy, and a media iterator that flattens pages into
// individual items with filtering and optional composite-item expansion.
package paginate

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrExhausted is returned by Next when iteration has already ended.
var ErrExhausted = errors.New("no more results available")

// Strategy derives the parameters for the next page from the one just
// fetched, or signals termination. Implementations must be stateless: all
// state lives in the params and pages passed in.
type Strategy[P, G any] interface {
	// Done reports whether page is the last one.
	Done(page G) bool
	// Next returns the params for the page after page. Called only when
	// Done returned false. prev is passed by value and must not be
	// mutated; return a new value.
	Next(prev P, page G) P
}

// FetchFunc fetches one page for the given params.
type FetchFunc[P, G any] func(ctx context.Context, params P) (G, error)

// PageIterator walks pages one fetch at a time until the strategy reports
// termination or a fetch fails. Not safe for concurrent use; independent
// iterators on the same client are.
type PageIterator[P, G any] struct {
	ctx      context.Context
	fetch    FetchFunc[P, G]
	strategy Strategy[P, G]
	params   P
	hasMore  bool
	err      error
}

// NewPageIterator creates an iterator starting from params.
func NewPageIterator[P, G any](ctx context.Context, fetch FetchFunc[P, G], strategy Strategy[P, G], params P) *PageIterator[P, G] {
	return &PageIterator[P, G]{
		ctx:      ctx,
		fetch:    fetch,
		strategy: strategy,
		params:   params,
		hasMore:  true,
	}
}

// HasNext reports whether another page may be available. It can return true
// immediately before Next reports an error, since availability is only
// known after fetching.
func (it *PageIterator[P, G]) HasNext() bool {
	return it.err == nil && it.hasMore
}

// Next fetches the next page. Returns ErrExhausted once iteration has
// ended; any other error is from the fetch and ends iteration permanently.
func (it *PageIterator[P, G]) Next() (G, error) {
	var zero G
	if it.err != nil {
		return zero, it.err
	}
	if !it.hasMore {
		return zero, ErrExhausted
	}

	page, err := it.fetch(it.ctx, it.params)
	if err != nil {
		it.err = err
		return zero, err
	}

	if it.strategy.Done(page) {
		it.hasMore = false
	} else {
		it.params = it.strategy.Next(it.params, page)
	}
	return page, nil
}

// Err returns the fetch error that ended iteration, if any.
func (it *PageIterator[P, G]) Err() error {
	return it.err
}

// Collect fetches up to maxPages pages. A maxPages of zero or less means
// no limit.
func (it *PageIterator[P, G]) Collect(maxPages int) ([]G, error) {
	var pages []G
	for it.HasNext() {
		if maxPages > 0 && len(pages) >= maxPages {
			break
		}
		page, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrExhausted) {
				break
			}
			return pages, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// ItemsFunc extracts the items from a page.
type ItemsFunc[G, I any] func(page G) []I

// FilterFunc reports whether an item should be yielded.
type FilterFunc[I any] func(item I) bool

// ExpandFunc replaces a composite item, such as a gallery placeholder,
// with its constituent items. ok is false when the item is not composite.
// An error drops the composite item without ending iteration.
type ExpandFunc[I any] func(ctx context.Context, item I) (items []I, ok bool, err error)

// MediaConfig configures a MediaIterator. Pages and Items are required;
// the rest are optional.
type MediaConfig[P, G, I any] struct {
	Pages *PageIterator[P, G]
	Items ItemsFunc[G, I]

	// PreFilter is applied to every item before the expansion check.
	// Composite items it rejects are never expanded.
	PreFilter FilterFunc[I]

	// Filter is applied to non-composite items and to each item produced
	// by expansion.
	Filter FilterFunc[I]

	// Expand resolves composite items into their parts.
	Expand ExpandFunc[I]

	Logger zerolog.Logger
}

// MediaIterator yields individual media items across page boundaries.
// Not safe for concurrent use.
type MediaIterator[P, G, I any] struct {
	pages     *PageIterator[P, G]
	items     ItemsFunc[G, I]
	preFilter FilterFunc[I]
	filter    FilterFunc[I]
	expand    ExpandFunc[I]
	logger    zerolog.Logger

	buffer  []I
	skipped int
	err     error
}

// NewMediaIterator creates a media iterator from cfg.
func NewMediaIterator[P, G, I any](cfg MediaConfig[P, G, I]) *MediaIterator[P, G, I] {
	return &MediaIterator[P, G, I]{
		pages:     cfg.Pages,
		items:     cfg.Items,
		preFilter: cfg.PreFilter,
		filter:    cfg.Filter,
		expand:    cfg.Expand,
		logger:    cfg.Logger,
	}
}

// HasNext reports whether another item may be available. Like
// PageIterator.HasNext it can be optimistic: the remaining pages may turn
// out to contain no matching items.
func (it *MediaIterator[P, G, I]) HasNext() bool {
	return it.err == nil && (len(it.buffer) > 0 || it.pages.HasNext())
}

// Next returns the next matching item, fetching further pages as needed.
// Returns ErrExhausted when no items remain. Page fetch errors end
// iteration; expansion errors only drop the affected composite item.
func (it *MediaIterator[P, G, I]) Next() (I, error) {
	var zero I
	if it.err != nil {
		return zero, it.err
	}

	for {
		if len(it.buffer) == 0 {
			if !it.pages.HasNext() {
				return zero, ErrExhausted
			}
			page, err := it.pages.Next()
			if err != nil {
				it.err = err
				return zero, err
			}
			it.buffer = append(it.buffer, it.items(page)...)
			continue
		}

		item := it.buffer[0]
		it.buffer = it.buffer[1:]

		if it.preFilter != nil && !it.preFilter(item) {
			continue
		}

		if it.expand != nil {
			expanded, ok, err := it.expand(it.pages.ctx, item)
			if err != nil {
				it.skipped++
				it.logger.Warn().Err(err).Msg("dropping item: expansion failed")
				continue
			}
			if ok {
				kept := make([]I, 0, len(expanded))
				for _, e := range expanded {
					if it.filter == nil || it.filter(e) {
						kept = append(kept, e)
					}
				}
				it.buffer = append(kept, it.buffer...)
				continue
			}
		}

		if it.filter != nil && !it.filter(item) {
			continue
		}
		return item, nil
	}
}

// Err returns the page fetch error that ended iteration, if any.
func (it *MediaIterator[P, G, I]) Err() error {
	return it.err
}

// Skipped returns the number of composite items dropped because their
// expansion failed.
func (it *MediaIterator[P, G, I]) Skipped() int {
	return it.skipped
}

// Collect gathers up to maxItems items. A maxItems of zero or less means
// no limit; be careful with unbounded collection on large listings.
func (it *MediaIterator[P, G, I]) Collect(maxItems int) ([]I, error) {
	var items []I
	for it.HasNext() {
		if maxItems > 0 && len(items) >= maxItems {
			break
		}
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrExhausted) {
				break
			}
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
