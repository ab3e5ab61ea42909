package image

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gracebir/image-service/internal/storage"
)

// Service sequences object-storage writes against metadata-record writes.
//
// The two backends share no transaction, so the two partial-failure windows
// are accepted rather than compensated: an upload whose record insert fails
// leaves an orphan object, and a delete whose record removal fails leaves a
// dangling record. Both are logged with distinct events for offline
// reconciliation; neither is retried.
type Service struct {
	repo  Repository
	store storage.Storage
	keys  *keyGenerator
	log   zerolog.Logger
}

// NewService creates a new image Service.
func NewService(repo Repository, store storage.Storage, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		store: store,
		keys:  newKeyGenerator(func() int64 { return time.Now().UnixMilli() }),
		log:   log.With().Str("component", "image-service").Logger(),
	}
}

// Upload writes the file bytes to object storage under a fresh key, then
// records the metadata row pointing at the object's public URL.
//
// If the storage write fails, no record is created. If the record insert
// fails after the write succeeded, the object stays behind unreferenced.
func (s *Service) Upload(ctx context.Context, data []byte, filename, contentType string) (*Image, error) {
	key := s.keys.Next(filename)

	if err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	url := s.store.PublicURL(key)

	img, err := s.repo.Create(ctx, filename, url)
	if err != nil {
		s.log.Error().Err(err).
			Str("event", "orphan_blob").
			Str("key", key).
			Str("url", url).
			Msg("object stored but metadata insert failed; object is unreferenced")
		return nil, fmt.Errorf("create record: %w", err)
	}

	return img, nil
}

// List returns all images, newest first.
func (s *Service) List(ctx context.Context) ([]Image, error) {
	return s.repo.GetAll(ctx)
}

// Get returns the image with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes both the stored object and the metadata record for id.
//
// The object delete is best-effort: a failure (or an underivable key) is
// logged and the record delete still proceeds — the record is the
// authoritative statement of intent, and keeping it alive over a harmlessly
// failed object delete would be worse.
func (s *Service) Delete(ctx context.Context, id int64) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	key := objectKeyFromURL(img.URL)
	blobGone := false
	if key == "" {
		s.log.Warn().Int64("id", id).Str("url", img.URL).
			Msg("cannot derive object key from url, skipping object delete")
	} else if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Int64("id", id).Str("key", key).
			Msg("object delete failed, removing record anyway")
	} else {
		blobGone = true
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if blobGone {
			s.log.Error().Err(err).
				Str("event", "dangling_record").
				Int64("id", id).
				Str("url", img.URL).
				Msg("object deleted but record removal failed; record points at nothing")
		}
		return fmt.Errorf("delete record: %w", err)
	}

	return nil
}
