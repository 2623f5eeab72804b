// Package objstore implements the object storage capability: durably storing
// an audio blob under a key and returning a public URL. Public URLs are
// deterministic (base URL + key) so they can be recomputed without querying
// the store.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUploadFailed indicates a blob could not be durably stored.
var ErrUploadFailed = errors.New("objstore: upload failed")

// Store durably stores blobs and returns public URLs.
type Store interface {
	// Put stores the blob under key and returns its public URL. Put is
	// idempotent: re-uploading the same key overwrites with identical
	// content and returns the same URL.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// EpisodeKey returns the canonical storage key for a video's audio artifact.
func EpisodeKey(videoID string) string {
	return "episodes/" + videoID + ".mp3"
}

// PublicURL joins a base URL and a key.
func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// wrapUpload annotates an upload failure with its key.
func wrapUpload(key string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUploadFailed, key, err)
}
