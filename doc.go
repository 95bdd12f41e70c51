// Package wallgrab provides API clients for fetching wallpapers and other
// media from Wallhaven, Unsplash and Reddit through a uniform interface.
//
// # Overview
//
// Each source lives in its own package (wallhaven, unsplash, reddit) and
// exposes the same surface: typed request params, a Search/Listing call for
// a single page, Pages and Media iterators for walking results, and a
// Download method for fetching an item's bytes.
//
// # Quick Start
//
// Fetch the first ten mountain wallpapers from Wallhaven:
//
//	client, err := wallhaven.NewClient(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	it := client.Media(ctx, wallhaven.SearchParams{Query: "mountains"})
//	walls, err := it.Collect(10)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, w := range walls {
//		data, err := client.Download(ctx, w)
//		// ...
//	}
//
// # Credentials
//
// Each client takes its credentials in its Config, falling back to
// environment variables: WALLHAVEN_API_KEY, UNSPLASH_ACCESS_KEY, and
// REDDIT_CLIENT_ID / REDDIT_CLIENT_SECRET / REDDIT_USER_AGENT. Wallhaven
// works without a key for SFW content; Unsplash and Reddit require
// credentials.
//
// # Pagination
//
// Pages iterators yield whole result pages; Media iterators flatten pages
// into individual items, applying media-type and NSFW filters and, for
// Reddit, expanding gallery posts into one item per image. Both follow the
// HasNext/Next/Collect pattern and stop with paginate.ErrExhausted.
//
// # Rate Limiting
//
// Requests are throttled client-side, and HTTP 429 responses are retried
// with exponential backoff when a retry budget is configured (the default
// is to fail fast with a RateLimitError).
//
// # Error Handling
//
// Failures are typed (see pkg/errors): AuthError, NotFoundError,
// RateLimitError, ValidationError and APIError. Use errors.As:
//
//	_, err := client.Search(ctx, params)
//	var rle *errors.RateLimitError
//	if errors.As(err, &rle) {
//		time.Sleep(rle.RetryAfter)
//	}
package wallgrab
