package reddit

import (
	"strings"
	"time"

	"github.com/wallgrab/wallgrab"
)

// expandGallery turns a gallery post's ordered item references and media
// metadata map into one Post per image, in reference order. References
// whose metadata is missing or has no usable URL are skipped.
func expandGallery(d *postData) []*Post {
	if d == nil || d.GalleryData == nil || len(d.MediaMetadata) == 0 {
		return nil
	}

	parent := &Post{
		ID:        d.ID,
		Title:     d.Title,
		Subreddit: d.Subreddit,
		Author:    d.Author,
		Score:     d.Score,
		Permalink: d.Permalink,
		CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		NSFW:      d.Over18,
	}

	items := make([]*Post, 0, len(d.GalleryData.Items))
	for index, ref := range d.GalleryData.Items {
		meta, ok := d.MediaMetadata[ref.MediaID]
		if !ok {
			continue
		}

		mediaURL := meta.Source.URL
		if mediaURL == "" {
			mediaURL = meta.Source.GIF
		}
		if mediaURL == "" {
			continue
		}
		// Reddit escapes ampersands in metadata URLs even with raw_json.
		mediaURL = strings.ReplaceAll(mediaURL, "&amp;", "&")

		items = append(items, &Post{
			ID:           parent.ID + "_" + ref.MediaID,
			Fullname:     "t3_" + parent.ID,
			Title:        parent.Title,
			Subreddit:    parent.Subreddit,
			Author:       parent.Author,
			Score:        parent.Score,
			Permalink:    parent.Permalink,
			CreatedAt:    parent.CreatedAt,
			NSFW:         parent.NSFW,
			MediaType:    wallgrab.MediaTypeImage,
			URL:          mediaURL,
			Width:        meta.Source.Width,
			Height:       meta.Source.Height,
			GalleryID:    parent.ID,
			GalleryIndex: index,
			Caption:      ref.Caption,
		})
	}
	return items
}
