package courtcast

import (
	"courtcast/audio"
	"courtcast/objstore"
	"courtcast/storage"
	"courtcast/youtube"
)

// Error types re-exported for library users, so callers can match pipeline
// failures without importing every sub-package.
//
// Using errors.Is for sentinel errors:
//
//	if errors.Is(err, courtcast.ErrQuotaExceeded) {
//		// back off until the daily quota resets
//	}
//
// Using errors.As for wrapped errors:
//
//	var ferr *courtcast.FetchError
//	if errors.As(err, &ferr) {
//		fmt.Printf("fetching %s failed: %v\n", ferr.VideoID, ferr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// ListerError wraps errors during channel listing.
	ListerError = youtube.ListerError
	// FetchError wraps errors during audio extraction.
	FetchError = audio.FetchError
	// StorageError wraps errors during state, catalog, and feed writes.
	StorageError = storage.StorageError
)

// Sentinel errors from sub-packages.
var (
	// ErrChannelNotFound indicates the channel does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrQuotaExceeded indicates the Data API daily budget is exhausted.
	ErrQuotaExceeded = youtube.ErrQuotaExceeded
	// ErrVideoUnavailable indicates the recording is private or removed.
	ErrVideoUnavailable = audio.ErrVideoUnavailable
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = audio.ErrYtdlpNotInstalled
	// ErrUploadFailed indicates a blob could not be durably stored.
	ErrUploadFailed = objstore.ErrUploadFailed
	// ErrStateMissing indicates the state file is absent and the run was
	// not told to treat that as a fresh install.
	ErrStateMissing = storage.ErrStateMissing
	// ErrStorageCorrupt indicates an unparsable state or catalog file.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrDuplicateEpisode indicates an append would violate catalog
	// uniqueness.
	ErrDuplicateEpisode = storage.ErrDuplicateEpisode
)
