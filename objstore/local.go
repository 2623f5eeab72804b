package objstore

import (
	"context"
	"io"
	"path/filepath"

	"courtcast/storage"
)

// LocalStore stores blobs under a directory on the local filesystem. It
// serves development and tests; the URL contract is identical to B2Store.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a filesystem-backed store rooted at dir.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: baseURL}
}

// Put writes the blob under dir/key with atomic replace semantics and
// returns its public URL.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrapUpload(key, err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", wrapUpload(key, err)
	}

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := storage.WriteFileAtomic(path, data); err != nil {
		return "", wrapUpload(key, err)
	}

	return PublicURL(s.baseURL, key), nil
}
