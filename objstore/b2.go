package objstore

import (
	"context"
	"io"

	"github.com/Backblaze/blazer/b2"
)

// B2Store stores blobs in a Backblaze B2 bucket.
type B2Store struct {
	bucket  *b2.Bucket
	baseURL string
}

// NewB2Store authorizes against B2 and binds to the named bucket. baseURL is
// the public download prefix for the bucket (e.g. a CDN or the B2 file URL).
func NewB2Store(ctx context.Context, keyID, appKey, bucketName, baseURL string) (*B2Store, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, err
	}
	return &B2Store{bucket: bucket, baseURL: baseURL}, nil
}

// Put uploads the blob under key and returns its public URL.
func (s *B2Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx,
		b2.WithAttrsOption(&b2.Attrs{ContentType: contentType}))

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", wrapUpload(key, err)
	}
	if err := w.Close(); err != nil {
		return "", wrapUpload(key, err)
	}

	return PublicURL(s.baseURL, key), nil
}
