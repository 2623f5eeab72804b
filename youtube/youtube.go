// Package youtube implements the remote listing capability: enumerating
// recent uploads of a channel via the Data API v3, with an Atom feed
// fallback for keyless operation.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Sentinel errors for listing failures.
var (
	// ErrChannelNotFound indicates the channel does not exist.
	ErrChannelNotFound = errors.New("youtube: channel not found")
	// ErrQuotaExceeded indicates the Data API refuses further calls this run.
	ErrQuotaExceeded = errors.New("youtube: api quota exceeded")
	// ErrRateLimited indicates the remote endpoint throttled the request.
	ErrRateLimited = errors.New("youtube: rate limited")
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = errors.New("youtube: network timeout")
	// ErrInvalidChannel indicates the channel identifier is malformed.
	ErrInvalidChannel = errors.New("youtube: invalid channel id")
)

// ListerError wraps errors during video listing with source context.
type ListerError struct {
	// Source identifies the lister ("api" or "atom").
	Source string
	// Channel is the channel being listed.
	Channel string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the lister error.
func (e *ListerError) Error() string {
	return fmt.Sprintf("youtube: %s list %s: %v", e.Source, e.Channel, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListerError) Unwrap() error { return e.Err }

// Video describes one remote recording. Sourced externally; never mutated
// locally.
type Video struct {
	// ID is the YouTube video ID, the stable identity used across the
	// state store, catalog, and feed.
	ID          string
	Title       string
	Description string
	Published   time.Time
	// Duration is a hint from the listing; zero when the source does not
	// report it (Atom feeds do not).
	Duration time.Duration
}

// ListOptions filters a listing call.
type ListOptions struct {
	// MaxResults bounds the lookback window (0 = lister default).
	MaxResults int
	// PublishedAfter drops videos published at or before this time.
	PublishedAfter time.Time
}

// Lister enumerates recent uploads of a channel, newest-first. Paging and
// quota accounting are the lister's responsibility.
type Lister interface {
	ListVideos(ctx context.Context, channelID string, opts *ListOptions) ([]Video, error)
}

// channelIDRegex matches YouTube channel IDs (UC followed by 22 base64 chars).
var channelIDRegex = regexp.MustCompile(`UC[a-zA-Z0-9_-]{22}`)

// ExtractChannelID extracts a channel ID from a bare ID or a channel URL.
func ExtractChannelID(input string) (string, error) {
	if m := channelIDRegex.FindString(input); m != "" {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChannel, input)
}

// UploadsPlaylistID derives the uploads playlist ID for a channel.
// YouTube exposes every channel's uploads as a playlist whose ID is the
// channel ID with the UC prefix replaced by UU.
func UploadsPlaylistID(channelID string) (string, error) {
	if !channelIDRegex.MatchString(channelID) || !strings.HasPrefix(channelID, "UC") {
		return "", fmt.Errorf("%w: %q", ErrInvalidChannel, channelID)
	}
	return "UU" + channelID[2:], nil
}

// filterVideos applies ListOptions filters to the video list.
func filterVideos(videos []Video, opts *ListOptions) []Video {
	if opts == nil {
		return videos
	}

	if !opts.PublishedAfter.IsZero() {
		filtered := make([]Video, 0, len(videos))
		for _, v := range videos {
			if v.Published.After(opts.PublishedAfter) {
				filtered = append(filtered, v)
			}
		}
		videos = filtered
	}

	if opts.MaxResults > 0 && len(videos) > opts.MaxResults {
		videos = videos[:opts.MaxResults]
	}

	return videos
}
