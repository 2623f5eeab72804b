// Package courtcast turns a court's YouTube channel into a podcast feed.
//
// It runs as a cron-driven batch job: each invocation lists the channel's
// recent uploads, publishes every recording it has not handled before, and
// regenerates the RSS feed. Runs are idempotent; a recording is published
// exactly once no matter how often the job fires or where it crashed last
// time.
//
// # Pipeline
//
// One run moves each new recording through five stages:
//
//   - detect: diff the channel listing against the local state store
//   - fetch: extract the audio track as a 128 kbps MP3 via yt-dlp
//   - tag: attach ID3 metadata (title, docket number, episode number)
//   - upload: store the artifact in Backblaze B2 under a stable key
//   - catalog: append the episode record and regenerate feed.xml
//
// A recording advances seen -> processed in the state store only after its
// catalog entry is durably on disk, so an interruption at any point is
// healed by the next run.
//
// # Quick Start
//
// Bootstrap against an existing channel, then let cron take over:
//
//	courtcast init
//	courtcast run
//
// List what has been published:
//
//	courtcast list
//
// # Configuration
//
// Settings load from three layers, later winning:
//
//  1. Built-in defaults
//  2. ~/.config/courtcast/config.toml (or --config)
//  3. Environment variables for credentials
//
// Environment variables:
//
//   - YOUTUBE_API_KEY: Data API key (omit to use the public Atom feed)
//   - B2_APPLICATION_KEY_ID, B2_APPLICATION_KEY, B2_BUCKET: Backblaze B2
//   - PODCAST_BASE_URL: public base URL for episode enclosures
//
// # Error Handling
//
// Sub-packages expose sentinel errors for errors.Is and typed wrappers for
// errors.As:
//
//	if errors.Is(err, youtube.ErrQuotaExceeded) {
//		// daily Data API budget exhausted, try again tomorrow
//	}
//
//	var serr *storage.StorageError
//	if errors.As(err, &serr) {
//		fmt.Printf("%s %s failed: %v\n", serr.Op, serr.Entity, serr.Err)
//	}
//
// # Sub-packages
//
//   - pipeline: detection, transformation, and the run driver
//   - youtube: channel listing via Data API v3 or the public Atom feed
//   - audio: yt-dlp extraction, ffprobe measurement, ID3 tagging
//   - objstore: Backblaze B2 and local filesystem blob storage
//   - feed: deterministic RSS rendering from the episode catalog
//   - storage: state store, episode catalog, atomic writes, locking
//   - config: TOML configuration with environment overrides
//   - retry: exponential backoff with error classification
//
// # Dependencies
//
// courtcast shells out to yt-dlp for audio extraction and, optionally,
// ffprobe for duration measurement.
//
// Install yt-dlp: https://github.com/yt-dlp/yt-dlp
package courtcast
