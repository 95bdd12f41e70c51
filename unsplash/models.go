package unsplash

import (
	"fmt"
	"time"
)

// Photo is an Unsplash photo. Search and list endpoints return abbreviated
// objects; detail and random responses also fill Downloads, Exif, Location
// and Tags.
type Photo struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Color          string     `json:"color"`
	BlurHash       string     `json:"blur_hash"`
	Description    string     `json:"description"`
	AltDescription string     `json:"alt_description"`
	Likes          int        `json:"likes"`

	URLs  PhotoURLs  `json:"urls"`
	Links PhotoLinks `json:"links"`
	User  User       `json:"user"`

	// Detail-only fields.
	Downloads int        `json:"downloads,omitempty"`
	Exif      *Exif      `json:"exif,omitempty"`
	Location  *Location  `json:"location,omitempty"`
	Tags      []PhotoTag `json:"tags,omitempty"`
}

// Resolution returns the photo's dimensions as "WxH".
func (p *Photo) Resolution() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// PhotoURLs are the CDN URLs at the sizes Unsplash serves.
type PhotoURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// PhotoLinks are the hypermedia links for a photo. DownloadLocation is the
// tracking endpoint that must be hit before downloading (API terms).
type PhotoLinks struct {
	Self             string `json:"self"`
	HTML             string `json:"html"`
	Download         string `json:"download"`
	DownloadLocation string `json:"download_location"`
}

// User is the photographer who uploaded the photo.
type User struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	Bio               string `json:"bio,omitempty"`
	Location          string `json:"location,omitempty"`
	PortfolioURL      string `json:"portfolio_url,omitempty"`
	InstagramUsername string `json:"instagram_username,omitempty"`
	TwitterUsername   string `json:"twitter_username,omitempty"`
	TotalCollections  int    `json:"total_collections,omitempty"`
}

// Exif is camera metadata, only present on detail responses.
type Exif struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Name         string `json:"name"`
	ExposureTime string `json:"exposure_time"`
	Aperture     string `json:"aperture"`
	FocalLength  string `json:"focal_length"`
	ISO          int    `json:"iso"`
}

// Location is where the photo was taken, only present on detail responses.
type Location struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	Position struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"position"`
}

// PhotoTag is a descriptive tag on a photo.
type PhotoTag struct {
	Title string `json:"title"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	Results    []*Photo `json:"results"`

	// Page is the 1-indexed page these results correspond to. The API
	// does not echo it; the client stamps it from the request params.
	Page int `json:"-"`
}
