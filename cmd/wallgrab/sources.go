package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/wallgrab/wallgrab"
	"github.com/wallgrab/wallgrab/reddit"
	"github.com/wallgrab/wallgrab/unsplash"
	"github.com/wallgrab/wallgrab/wallhaven"
)

func newWallhavenCmd(opts *rootOptions) *cobra.Command {
	var (
		apiKey   string
		purity   []string
		sorting  string
		topRange string
		atLeast  string
	)

	cmd := &cobra.Command{
		Use:   "wallhaven [query]",
		Short: "Download wallpapers from Wallhaven",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := wallhaven.NewClient(&wallhaven.Config{
				APIKey:     apiKey,
				MaxRetries: opts.retries,
				Logger:     opts.logger(),
			})
			if err != nil {
				return err
			}

			params := wallhaven.SearchParams{
				Sorting:  wallhaven.Sorting(sorting),
				TopRange: topRange,
				AtLeast:  atLeast,
			}
			if len(args) > 0 {
				params.Query = args[0]
			}
			for _, p := range purity {
				params.Purity = append(params.Purity, wallhaven.Purity(p))
			}

			items, err := client.Media(cmd.Context(), params).Collect(opts.max)
			if err != nil {
				return err
			}
			return saveAll(cmd, opts, client, items, func(w *wallhaven.Wallpaper) string {
				return fileName(w.ID, w.Path)
			})
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Wallhaven API key (or WALLHAVEN_API_KEY)")
	cmd.Flags().StringSliceVar(&purity, "purity", nil, "purity levels: sfw, sketchy, nsfw")
	cmd.Flags().StringVar(&sorting, "sort", "", "sorting: date_added, relevance, random, views, favorites, toplist")
	cmd.Flags().StringVar(&topRange, "top-range", "", "toplist range: 1d, 3d, 1w, 1M, 3M, 6M, 1y")
	cmd.Flags().StringVar(&atLeast, "at-least", "", "minimum resolution, e.g. 1920x1080")
	return cmd
}

func newUnsplashCmd(opts *rootOptions) *cobra.Command {
	var (
		accessKey   string
		orientation string
		color       string
	)

	cmd := &cobra.Command{
		Use:   "unsplash <query>",
		Short: "Download photos from Unsplash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := unsplash.NewClient(&unsplash.Config{
				AccessKey:  accessKey,
				MaxRetries: opts.retries,
				Logger:     opts.logger(),
			})
			if err != nil {
				return err
			}

			params := unsplash.SearchParams{
				Query:       args[0],
				Orientation: orientation,
				Color:       color,
			}

			items, err := client.Media(cmd.Context(), params).Collect(opts.max)
			if err != nil {
				return err
			}
			return saveAll(cmd, opts, client, items, func(p *unsplash.Photo) string {
				return fileName(p.ID, p.URLs.Full)
			})
		},
	}

	cmd.Flags().StringVar(&accessKey, "access-key", "", "Unsplash access key (or UNSPLASH_ACCESS_KEY)")
	cmd.Flags().StringVar(&orientation, "orientation", "", "landscape, portrait or squarish")
	cmd.Flags().StringVar(&color, "color", "", "dominant color filter")
	return cmd
}

func newRedditCmd(opts *rootOptions) *cobra.Command {
	var (
		sort        string
		timeFilter  string
		mediaType   string
		includeNSFW bool
	)

	cmd := &cobra.Command{
		Use:   "reddit <subreddit>",
		Short: "Download media posts from a subreddit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := reddit.NewClient(&reddit.Config{
				MaxRetries: opts.retries,
				RetryDelay: time.Second,
				Logger:     opts.logger(),
			})
			if err != nil {
				return err
			}

			params := reddit.ListingParams{
				Subreddit:   args[0],
				Sort:        reddit.Sort(sort),
				TimeFilter:  reddit.TimeFilter(timeFilter),
				MediaType:   wallgrab.MediaType(mediaType),
				IncludeNSFW: includeNSFW,
			}

			it := client.Media(cmd.Context(), params)
			items, err := it.Collect(opts.max)
			if err != nil {
				return err
			}
			if skipped := it.Skipped(); skipped > 0 {
				cmd.PrintErrln("skipped", skipped, "galleries that failed to expand")
			}
			return saveAll(cmd, opts, client, items, func(p *reddit.Post) string {
				mediaURL := p.URL
				if p.VideoURL != "" {
					mediaURL = p.VideoURL
				}
				return fileName(p.ID, mediaURL)
			})
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "hot", "hot, new, top, rising or controversial")
	cmd.Flags().StringVar(&timeFilter, "time", "", "top/controversial range: hour, day, week, month, year, all")
	cmd.Flags().StringVar(&mediaType, "type", "", "media type filter: image, video, gif")
	cmd.Flags().BoolVar(&includeNSFW, "nsfw", false, "include NSFW posts")
	return cmd
}
