package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// Uploaded objects are immutable (keys are never reused), so clients may
// cache them for a year.
const cacheControl = "public, max-age=31536000, immutable"

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
//
// Bucket validation is deferred: the constructor only builds the client, and
// the bucket is checked/created on the first mutating call. A missing bucket
// name therefore fails the first upload, not process startup.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
	log        zerolog.Logger

	initOnce sync.Once
	initErr  error
}

// NewMinioStorage creates a MinIO client for the given endpoint and credentials.
// No network call is made here; see ensureBucket.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool, log zerolog.Logger) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		log:        log.With().Str("component", "storage").Logger(),
	}, nil
}

// ensureBucket validates configuration and makes sure the bucket exists with a
// public-read policy. Runs once; the outcome (including failure) is memoized.
func (s *MinioStorage) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		if s.bucket == "" {
			s.initErr = ErrBucketNotConfigured
			return
		}

		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = fmt.Errorf("check bucket existence: %w", err)
			return
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
				s.initErr = fmt.Errorf("create bucket %q: %w", s.bucket, err)
				return
			}
			s.log.Info().Str("bucket", s.bucket).Msg("created bucket")
		}

		if err := s.client.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket)); err != nil {
			s.initErr = fmt.Errorf("set bucket policy: %w", err)
		}
	})
	return s.initErr
}

// Upload streams reader to the bucket under key. size must be the exact byte
// count. A single attempt is made; any backend error is returned as-is.
func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Delete removes the object at key from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// PublicURL returns the browser-accessible URL for the given key, e.g.
// "http://localhost:9000/images/1717171717000.jpg".
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
