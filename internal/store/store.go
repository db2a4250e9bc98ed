package store

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound reports that the requested object does not exist in the bucket.
var ErrNotFound = errors.New("dataset object not found")

// BlobStore fetches dataset files by object key.
type BlobStore interface {
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
}
