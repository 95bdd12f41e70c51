package main

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wallgrab/wallgrab"
)

type rootOptions struct {
	verbose bool
	max     int
	outDir  string
	workers int
	retries int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "wallgrab",
		Short:         "Search and download wallpapers from Wallhaven, Unsplash and Reddit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.IntVarP(&opts.max, "max", "n", 10, "maximum number of items to download")
	pf.StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	pf.IntVar(&opts.workers, "workers", 4, "concurrent downloads")
	pf.IntVar(&opts.retries, "retries", 2, "retries after a rate-limit response")

	cmd.AddCommand(
		newWallhavenCmd(opts),
		newUnsplashCmd(opts),
		newRedditCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger() *zerolog.Logger {
	level := zerolog.InfoLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	return &logger
}

// saveAll downloads the items and writes each to outDir, naming files by
// the item's id with the extension taken from its media URL.
func saveAll[I any](cmd *cobra.Command, opts *rootOptions, src wallgrab.Downloader[I], items []I, name func(I) string) error {
	if len(items) == 0 {
		cmd.Println("No results.")
		return nil
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	blobs, err := wallgrab.DownloadAll(cmd.Context(), src, items, opts.workers)
	if err != nil {
		return err
	}

	for i, data := range blobs {
		dest := filepath.Join(opts.outDir, name(items[i]))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		cmd.Println("saved", dest)
	}
	return nil
}

// fileName builds a safe file name from an item id and its media URL.
func fileName(id, mediaURL string) string {
	ext := ".jpg"
	if u, err := url.Parse(mediaURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
	return safe + ext
}
