package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, bucket, publicBase string) *MinioStorage {
	t.Helper()
	// no network I/O happens until the first mutating call
	s, err := NewMinioStorage("localhost:9000", "minioadmin", "minioadmin", bucket, publicBase, false, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestPublicURL(t *testing.T) {
	s := newTestStorage(t, "images", "http://localhost:9000/images")

	assert.Equal(t, "http://localhost:9000/images/1700000000000.jpg", s.PublicURL("1700000000000.jpg"))
}

func TestPublicURLTrimsTrailingSlash(t *testing.T) {
	s := newTestStorage(t, "images", "https://cdn.example.com/")

	assert.Equal(t, "https://cdn.example.com/k.png", s.PublicURL("k.png"))
}

func TestMissingBucketFailsOnFirstAccess(t *testing.T) {
	s := newTestStorage(t, "", "http://localhost:9000/images")

	err := s.Upload(context.Background(), "k.png", bytes.NewReader([]byte("x")), 1, "image/png")
	require.ErrorIs(t, err, ErrBucketNotConfigured)

	// the failed init is memoized; delete hits the same error
	err = s.Delete(context.Background(), "k.png")
	require.ErrorIs(t, err, ErrBucketNotConfigured)
}
