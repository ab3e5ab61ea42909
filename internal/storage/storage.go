// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrBucketNotConfigured is returned on the first storage access when no
// bucket name was configured.
var ErrBucketNotConfigured = errors.New("storage bucket not configured")

// Storage is the interface for uploading and deleting objects.
type Storage interface {
	// Upload writes data to the store under the given key, exactly once —
	// no retry is performed on failure.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. Deleting a key that does
	// not exist is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	// Pure derivation, no I/O.
	PublicURL(key string) string
}
