package reddit

import (
	"encoding/json"
	"time"

	"github.com/wallgrab/wallgrab"
)

// Post is a media post parsed from a listing. Non-media posts (self posts,
// unsupported link types) are dropped during parsing.
type Post struct {
	// ID is the post id, e.g. "abc123". For items produced by gallery
	// expansion it is "{postID}_{mediaID}".
	ID       string
	Fullname string
	Title    string

	Subreddit string
	Author    string
	Score     int
	Permalink string
	CreatedAt time.Time
	NSFW      bool

	MediaType wallgrab.MediaType

	// URL is the direct media URL. Empty on an unexpanded gallery post.
	URL string
	// VideoURL is the playable fallback URL for videos and GIFs.
	VideoURL string

	Width    int
	Height   int
	Duration int

	ThumbnailURL string

	// IsGallery marks a gallery post. Before expansion the post is an
	// image-typed placeholder with an empty URL.
	IsGallery bool
	// GalleryID is the parent post id on expanded gallery items.
	GalleryID string
	// GalleryIndex is the item's position in the gallery's ordering,
	// 0-based. It is -1 on posts that are not expanded gallery items.
	GalleryIndex int
	// Caption is the gallery item caption, when present.
	Caption string
}

// listingEnvelope is the wire shape of a Listing kind response.
type listingEnvelope struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
		After  string `json:"after"`
		Before string `json:"before"`
		Dist   int    `json:"dist"`
	} `json:"data"`
}

// postData is the wire shape of a t3 thing, limited to the fields the
// parser needs.
type postData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`

	URL      string `json:"url"`
	Domain   string `json:"domain"`
	PostHint string `json:"post_hint"`

	IsSelf    bool `json:"is_self"`
	IsVideo   bool `json:"is_video"`
	IsGallery bool `json:"is_gallery"`
	Over18    bool `json:"over_18"`

	Thumbnail string `json:"thumbnail"`

	Media       *mediaContainer `json:"media"`
	SecureMedia *mediaContainer `json:"secure_media"`
	Preview     *preview        `json:"preview"`

	GalleryData   *galleryData             `json:"gallery_data"`
	MediaMetadata map[string]mediaMetadata `json:"media_metadata"`
}

type mediaContainer struct {
	RedditVideo *redditVideo `json:"reddit_video"`
}

type redditVideo struct {
	FallbackURL string `json:"fallback_url"`
	IsGIF       bool   `json:"is_gif"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Duration    int    `json:"duration"`
}

type preview struct {
	Images []struct {
		Source struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"source"`
	} `json:"images"`
}

type galleryData struct {
	Items []galleryRef `json:"items"`
}

type galleryRef struct {
	MediaID string `json:"media_id"`
	Caption string `json:"caption"`
}

type mediaMetadata struct {
	Status   string `json:"status"`
	MimeType string `json:"m"`
	Source   struct {
		URL    string `json:"u"`
		GIF    string `json:"gif"`
		Width  int    `json:"x"`
		Height int    `json:"y"`
	} `json:"s"`
}

// video returns the reddit_video block, preferring secure_media.
func (d *postData) video() *redditVideo {
	if d.SecureMedia != nil && d.SecureMedia.RedditVideo != nil {
		return d.SecureMedia.RedditVideo
	}
	if d.Media != nil && d.Media.RedditVideo != nil {
		return d.Media.RedditVideo
	}
	return nil
}

// imageDomains are link domains treated as direct images even without a
// post_hint.
var imageDomains = map[string]bool{
	"i.redd.it":   true,
	"i.imgur.com": true,
}

// postFromData converts a t3 thing into a Post, or nil when the post has
// no supported media (self posts, text links, crossposts to unsupported
// hosts).
func postFromData(d *postData) *Post {
	if d == nil || d.IsSelf {
		return nil
	}

	post := &Post{
		ID:           d.ID,
		Fullname:     d.Name,
		Title:        d.Title,
		Subreddit:    d.Subreddit,
		Author:       d.Author,
		Score:        d.Score,
		Permalink:    d.Permalink,
		CreatedAt:    time.Unix(int64(d.CreatedUTC), 0).UTC(),
		NSFW:         d.Over18,
		URL:          d.URL,
		ThumbnailURL: d.Thumbnail,
		GalleryIndex: -1,
	}

	if v := d.video(); v != nil {
		post.MediaType = wallgrab.MediaTypeVideo
		if v.IsGIF {
			post.MediaType = wallgrab.MediaTypeGIF
		}
		post.VideoURL = v.FallbackURL
		post.Width = v.Width
		post.Height = v.Height
		post.Duration = v.Duration
		return post
	}

	if d.IsGallery {
		// Placeholder until Media iteration expands it.
		post.IsGallery = true
		post.MediaType = wallgrab.MediaTypeImage
		post.URL = ""
		return post
	}

	if d.PostHint == "image" || imageDomains[d.Domain] {
		post.MediaType = wallgrab.MediaTypeImage
		if d.Preview != nil && len(d.Preview.Images) > 0 {
			post.Width = d.Preview.Images[0].Source.Width
			post.Height = d.Preview.Images[0].Source.Height
		}
		return post
	}

	return nil
}

// Listing is one parsed page of a subreddit listing.
type Listing struct {
	// Posts are the media posts on the page, in listing order. Non-media
	// posts are dropped during parsing.
	Posts []*Post

	// After is the forward pagination cursor; empty on the last page.
	After  string
	Before string

	// Dist is the number of children the API returned before media
	// filtering.
	Dist int
}
