package wallhaven

import "encoding/json"

// Wallpaper is a single wallpaper as returned by the search and detail
// endpoints. Uploader and Tags are only populated on detail responses.
type Wallpaper struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	ShortURL   string   `json:"short_url"`
	Views      int      `json:"views"`
	Favorites  int      `json:"favorites"`
	Source     string   `json:"source"`
	Purity     string   `json:"purity"`
	Category   string   `json:"category"`
	DimensionX int      `json:"dimension_x"`
	DimensionY int      `json:"dimension_y"`
	Resolution string   `json:"resolution"`
	Ratio      string   `json:"ratio"`
	FileSize   int64    `json:"file_size"`
	FileType   string   `json:"file_type"`
	CreatedAt  string   `json:"created_at"`
	Colors     []string `json:"colors"`

	// Path is the full-resolution image URL used by Download.
	Path string `json:"path"`

	Thumbs   Thumbs    `json:"thumbs"`
	Uploader *Uploader `json:"uploader,omitempty"`
	Tags     []Tag     `json:"tags,omitempty"`
}

// Thumbs holds thumbnail URLs at the sizes Wallhaven generates.
type Thumbs struct {
	Large    string `json:"large"`
	Original string `json:"original"`
	Small    string `json:"small"`
}

// Uploader identifies the user who uploaded a wallpaper.
type Uploader struct {
	Username string            `json:"username"`
	Group    string            `json:"group"`
	Avatar   map[string]string `json:"avatar"`
}

// Tag is a wallpaper tag.
type Tag struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Alias      string `json:"alias"`
	CategoryID int    `json:"category_id"`
	Category   string `json:"category"`
	Purity     string `json:"purity"`
	CreatedAt  string `json:"created_at"`
}

// Meta is the pagination block on listing responses.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`

	// Query echoes the search query. Wallhaven returns a plain string for
	// text searches and an object for tag-id searches.
	Query SearchQuery `json:"query"`

	// Seed is set on random-sort responses and must be sent back to keep
	// ordering stable across pages.
	Seed string `json:"seed,omitempty"`
}

// SearchQuery is the query echo in Meta, either a string or a tag object.
type SearchQuery struct {
	Text string
	// TagID and Tag are set when the query resolved to a tag search.
	TagID int64
	Tag   string
}

// UnmarshalJSON accepts both the string and the object form.
func (q *SearchQuery) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &q.Text)
	}
	var obj struct {
		ID  int64  `json:"id"`
		Tag string `json:"tag"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	q.TagID = obj.ID
	q.Tag = obj.Tag
	return nil
}

// SearchResult is one page of search results.
type SearchResult struct {
	Data []*Wallpaper `json:"data"`
	Meta Meta         `json:"meta"`
}

// Collection is a user wallpaper collection.
type Collection struct {
	ID     int    `json:"id"`
	Label  string `json:"label"`
	Views  int    `json:"views"`
	Public int    `json:"public"`
	Count  int    `json:"count"`
}

// CollectionListing is one page of a collection's wallpapers.
type CollectionListing struct {
	Data []*Wallpaper `json:"data"`
	Meta Meta         `json:"meta"`
}

// UserSettings are the authenticated user's browsing defaults.
type UserSettings struct {
	ThumbSize     string   `json:"thumb_size"`
	PerPage       string   `json:"per_page"`
	Purity        []string `json:"purity"`
	Categories    []string `json:"categories"`
	Resolutions   []string `json:"resolutions"`
	AspectRatios  []string `json:"aspect_ratios"`
	ToplistRange  string   `json:"toplist_range"`
	TagBlacklist  []string `json:"tag_blacklist"`
	UserBlacklist []string `json:"user_blacklist"`
}
