// Package audio implements the fetch/transcode capability: extracting a
// video's audio track as a fixed-bitrate MP3 via yt-dlp, probing the produced
// artifact, and writing descriptive ID3 tags.
package audio

import (
	"errors"
	"fmt"
)

// Sentinel errors for audio processing.
var (
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = errors.New("audio: yt-dlp not installed")
	// ErrVideoUnavailable indicates the video is private, deleted, or blocked.
	ErrVideoUnavailable = errors.New("audio: video unavailable")
	// ErrRateLimited indicates the download was throttled or refused.
	ErrRateLimited = errors.New("audio: rate limited")
	// ErrTagFailed indicates ID3 tagging failed. Tagging failures are
	// non-fatal to publishing; callers degrade to untagged audio.
	ErrTagFailed = errors.New("audio: tagging failed")
)

// FetchError wraps errors during audio extraction with the video context.
type FetchError struct {
	VideoID string
	Err     error
}

// Error returns a string representation of the fetch error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("audio: fetch %s: %v", e.VideoID, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }
