// Command wallgrab searches a media source and downloads the results.
//
// Credentials come from flags, the environment, or a .env file in the
// working directory (WALLHAVEN_API_KEY, UNSPLASH_ACCESS_KEY,
// REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USER_AGENT).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; the clients fall back to the environment.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
