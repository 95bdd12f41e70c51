package unsplash

import (
	"github.com/wallgrab/wallgrab/internal"
	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

// OrderBy orders search results.
type OrderBy string

const (
	OrderRelevant OrderBy = "relevant"
	OrderLatest   OrderBy = "latest"
)

// ContentFilter is Unsplash's content safety level. The API default is
// "low"; "high" removes content flagged by their moderation.
type ContentFilter string

const (
	ContentFilterLow  ContentFilter = "low"
	ContentFilterHigh ContentFilter = "high"
)

// SearchParams are the parameters for Search.
type SearchParams struct {
	// Query is the search string. Required.
	Query string `url:"query" validate:"required"`

	// Page is 1-indexed. Zero means the first page.
	Page    int `url:"page,omitempty" validate:"omitempty,min=1"`
	PerPage int `url:"per_page,omitempty" validate:"omitempty,min=1,max=30"`

	OrderBy OrderBy `url:"order_by,omitempty" validate:"omitempty,oneof=relevant latest"`

	// Collections narrows results to the given collection IDs.
	Collections []string `url:"collections,comma,omitempty"`

	ContentFilter ContentFilter `url:"content_filter,omitempty" validate:"omitempty,oneof=low high"`

	// Color filters by dominant color.
	Color string `url:"color,omitempty" validate:"omitempty,oneof=black_and_white black white yellow orange red purple magenta green teal blue"`

	Orientation string `url:"orientation,omitempty" validate:"omitempty,oneof=landscape portrait squarish"`
}

// Validate checks the params without sending a request.
func (p SearchParams) Validate() error {
	return internal.ValidateParams(p)
}

// WithPage returns a copy of the params targeting the given page.
func (p SearchParams) WithPage(page int) SearchParams {
	p.Page = page
	return p
}

// RandomParams are the parameters for Random. All fields are optional, but
// Query cannot be combined with Collections or Topics (the API rejects it).
type RandomParams struct {
	Query       string   `url:"query,omitempty"`
	Collections []string `url:"collections,comma,omitempty"`
	Topics      []string `url:"topics,comma,omitempty"`
	Username    string   `url:"username,omitempty"`

	Orientation   string        `url:"orientation,omitempty" validate:"omitempty,oneof=landscape portrait squarish"`
	ContentFilter ContentFilter `url:"content_filter,omitempty" validate:"omitempty,oneof=low high"`
}

// Validate checks the params without sending a request.
func (p RandomParams) Validate() error {
	if err := internal.ValidateParams(p); err != nil {
		return err
	}
	if p.Query != "" && (len(p.Collections) > 0 || len(p.Topics) > 0) {
		return &pkgerrs.ValidationError{
			Field:   "Query",
			Message: "cannot be combined with collections or topics",
		}
	}
	return nil
}
