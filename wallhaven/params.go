package wallhaven

import (
	"net/url"
	"strings"

	"github.com/wallgrab/wallgrab/internal"
	pkgerrs "github.com/wallgrab/wallgrab/pkg/errors"
)

// Category filters which wallpaper categories are searched.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryAnime   Category = "anime"
	CategoryPeople  Category = "people"
)

// CategoryList encodes to Wallhaven's three-digit category mask, e.g.
// [general, people] becomes "101".
type CategoryList []Category

// EncodeValues implements query.Encoder.
func (l CategoryList) EncodeValues(key string, v *url.Values) error {
	mask := []byte{'0', '0', '0'}
	for _, c := range l {
		switch c {
		case CategoryGeneral:
			mask[0] = '1'
		case CategoryAnime:
			mask[1] = '1'
		case CategoryPeople:
			mask[2] = '1'
		}
	}
	v.Set(key, string(mask))
	return nil
}

// Purity is a content purity level.
type Purity string

const (
	PuritySFW     Purity = "sfw"
	PuritySketchy Purity = "sketchy"
	PurityNSFW    Purity = "nsfw"
)

// PurityList encodes to Wallhaven's three-digit purity mask, e.g.
// [sfw, sketchy] becomes "110".
type PurityList []Purity

// EncodeValues implements query.Encoder.
func (l PurityList) EncodeValues(key string, v *url.Values) error {
	mask := []byte{'0', '0', '0'}
	for _, p := range l {
		switch p {
		case PuritySFW:
			mask[0] = '1'
		case PuritySketchy:
			mask[1] = '1'
		case PurityNSFW:
			mask[2] = '1'
		}
	}
	v.Set(key, string(mask))
	return nil
}

// ContainsNSFW reports whether the list requests NSFW content, which
// Wallhaven only serves to authenticated users.
func (l PurityList) ContainsNSFW() bool {
	for _, p := range l {
		if p == PurityNSFW {
			return true
		}
	}
	return false
}

// Sorting orders search results.
type Sorting string

const (
	SortDateAdded Sorting = "date_added"
	SortRelevance Sorting = "relevance"
	SortRandom    Sorting = "random"
	SortViews     Sorting = "views"
	SortFavorites Sorting = "favorites"
	SortToplist   Sorting = "toplist"
)

// SearchParams are the parameters for Search. The zero value is a valid
// default search.
type SearchParams struct {
	// Query is the search string. Supports Wallhaven operators like
	// "+tag", "-tag", "@username" and "like:<id>".
	Query string `url:"q,omitempty"`

	Categories CategoryList `url:"categories,omitempty" validate:"omitempty,dive,oneof=general anime people"`

	// Purity defaults to SFW-only on the server. NSFW requires an API key.
	Purity PurityList `url:"purity,omitempty" validate:"omitempty,dive,oneof=sfw sketchy nsfw"`

	Sorting Sorting `url:"sorting,omitempty" validate:"omitempty,oneof=date_added relevance random views favorites toplist"`
	Order   string  `url:"order,omitempty" validate:"omitempty,oneof=desc asc"`

	// TopRange is only valid with SortToplist.
	TopRange string `url:"topRange,omitempty" validate:"omitempty,oneof=1d 3d 1w 1M 3M 6M 1y"`

	// AtLeast is a minimum resolution, e.g. "1920x1080".
	AtLeast string `url:"atleast,omitempty" validate:"omitempty,resolution"`

	// Resolutions restricts to exact resolutions.
	Resolutions []string `url:"resolutions,comma,omitempty" validate:"omitempty,dive,resolution"`

	// Ratios restricts aspect ratios, e.g. "16x9" or "landscape".
	Ratios []string `url:"ratios,comma,omitempty" validate:"omitempty,dive,ratio"`

	// Colors searches by dominant color hex values, e.g. "663399".
	Colors []string `url:"colors,comma,omitempty" validate:"omitempty,dive,hexadecimal,len=6"`

	Page int `url:"page,omitempty" validate:"omitempty,min=1"`

	// Seed pins random-sort ordering across pages. Returned in the
	// response meta and carried forward automatically by Pages and Media.
	Seed string `url:"seed,omitempty" validate:"omitempty,alphanum,len=6"`
}

// Validate checks the params without sending a request.
func (p SearchParams) Validate() error {
	if err := internal.ValidateParams(p); err != nil {
		return err
	}
	if p.TopRange != "" && p.Sorting != SortToplist {
		return &pkgerrs.ValidationError{
			Field:   "TopRange",
			Message: "requires toplist sorting",
		}
	}
	return nil
}

// WithPage returns a copy of the params targeting the given page.
func (p SearchParams) WithPage(page int) SearchParams {
	p.Page = page
	return p
}

// WithSeed returns a copy of the params pinned to the given random seed.
func (p SearchParams) WithSeed(seed string) SearchParams {
	p.Seed = seed
	return p
}

// String renders the params as a query string for logging.
func (p SearchParams) String() string {
	v, err := queryValues(p)
	if err != nil {
		return err.Error()
	}
	q, _ := url.QueryUnescape(v.Encode())
	return strings.ReplaceAll(q, "&", " ")
}
