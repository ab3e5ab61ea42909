package image_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracebir/image-service/internal/image"
)

// mockRepository implements image.Repository with overridable behavior.
type mockRepository struct {
	CreateFunc  func(ctx context.Context, name, url string) (*image.Image, error)
	GetAllFunc  func(ctx context.Context) ([]image.Image, error)
	GetByIDFunc func(ctx context.Context, id int64) (*image.Image, error)
	DeleteFunc  func(ctx context.Context, id int64) error

	createCalls int
	deleteCalls int
}

func (m *mockRepository) Create(ctx context.Context, name, url string) (*image.Image, error) {
	m.createCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, url)
	}
	return &image.Image{ID: 1, Name: name, URL: url, CreatedAt: time.Now()}, nil
}

func (m *mockRepository) GetAll(ctx context.Context) ([]image.Image, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*image.Image, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, image.ErrNotFound
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// mockStorage implements storage.Storage and records every call.
type mockStorage struct {
	UploadFunc func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DeleteFunc func(ctx context.Context, key string) error

	uploadCalls []uploadCall
	deleteCalls []string
}

type uploadCall struct {
	key         string
	data        []byte
	contentType string
}

func (m *mockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, _ := io.ReadAll(reader)
	m.uploadCalls = append(m.uploadCalls, uploadCall{key: key, data: data, contentType: contentType})
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, reader, size, contentType)
	}
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.deleteCalls = append(m.deleteCalls, key)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *mockStorage) PublicURL(key string) string {
	return "http://localhost:9000/images/" + key
}

func TestUploadStoresObjectThenRecord(t *testing.T) {
	repo := &mockRepository{}
	store := &mockStorage{}
	svc := image.NewService(repo, store, zerolog.Nop())

	data := []byte("fake png bytes")
	img, err := svc.Upload(context.Background(), data, "cat.png", "image/png")
	require.NoError(t, err)

	require.Len(t, store.uploadCalls, 1)
	call := store.uploadCalls[0]
	assert.Equal(t, data, call.data)
	assert.Equal(t, "image/png", call.contentType)

	assert.Equal(t, "cat.png", img.Name)
	assert.Equal(t, "http://localhost:9000/images/"+call.key, img.URL)
	assert.Equal(t, 1, repo.createCalls)
}

func TestUploadKeysDifferForSameExtension(t *testing.T) {
	repo := &mockRepository{}
	store := &mockStorage{}
	svc := image.NewService(repo, store, zerolog.Nop())

	_, err := svc.Upload(context.Background(), []byte("a"), "a.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = svc.Upload(context.Background(), []byte("b"), "b.jpg", "image/jpeg")
	require.NoError(t, err)

	require.Len(t, store.uploadCalls, 2)
	assert.NotEqual(t, store.uploadCalls[0].key, store.uploadCalls[1].key)
}

func TestUploadStorageFailureCreatesNoRecord(t *testing.T) {
	repo := &mockRepository{}
	store := &mockStorage{
		UploadFunc: func(context.Context, string, io.Reader, int64, string) error {
			return errors.New("bucket unreachable")
		},
	}
	svc := image.NewService(repo, store, zerolog.Nop())

	_, err := svc.Upload(context.Background(), []byte("x"), "x.png", "image/png")
	require.Error(t, err)
	assert.Equal(t, 0, repo.createCalls)
}

func TestUploadRecordFailureLeavesOrphanObject(t *testing.T) {
	repo := &mockRepository{
		CreateFunc: func(context.Context, string, string) (*image.Image, error) {
			return nil, errors.New("database down")
		},
	}
	store := &mockStorage{}
	svc := image.NewService(repo, store, zerolog.Nop())

	_, err := svc.Upload(context.Background(), []byte("x"), "x.png", "image/png")
	require.Error(t, err)
	// the object was written before the insert failed; nothing cleans it up
	assert.Len(t, store.uploadCalls, 1)
	assert.Empty(t, store.deleteCalls)
}

func TestDeleteRemovesObjectThenRecord(t *testing.T) {
	repo := &mockRepository{
		GetByIDFunc: func(_ context.Context, id int64) (*image.Image, error) {
			return &image.Image{ID: id, Name: "cat.png", URL: "http://localhost:9000/images/1700000000000.png"}, nil
		},
	}
	store := &mockStorage{}
	svc := image.NewService(repo, store, zerolog.Nop())

	require.NoError(t, svc.Delete(context.Background(), 7))

	assert.Equal(t, []string{"1700000000000.png"}, store.deleteCalls)
	assert.Equal(t, 1, repo.deleteCalls)
}

func TestDeleteUnknownIDTouchesNoStorage(t *testing.T) {
	repo := &mockRepository{}
	store := &mockStorage{}
	svc := image.NewService(repo, store, zerolog.Nop())

	err := svc.Delete(context.Background(), 999)
	require.ErrorIs(t, err, image.ErrNotFound)
	assert.Empty(t, store.deleteCalls)
	assert.Equal(t, 0, repo.deleteCalls)
}

func TestDeleteMalformedURLSkipsObjectDelete(t *testing.T) {
	repo := &mockRepository{
		GetByIDFunc: func(_ context.Context, id int64) (*image.Image, error) {
			return &image.Image{ID: id, Name: "odd", URL: "garbage"}, nil
		},
	}
	store := &mockStorage{}
	svc := image.NewService(repo, store, zerolog.Nop())

	require.NoError(t, svc.Delete(context.Background(), 3))

	assert.Empty(t, store.deleteCalls)
	assert.Equal(t, 1, repo.deleteCalls)
}

func TestDeleteProceedsWhenObjectDeleteFails(t *testing.T) {
	repo := &mockRepository{
		GetByIDFunc: func(_ context.Context, id int64) (*image.Image, error) {
			return &image.Image{ID: id, URL: "http://localhost:9000/images/k.png"}, nil
		},
	}
	store := &mockStorage{
		DeleteFunc: func(context.Context, string) error {
			return errors.New("object already gone")
		},
	}
	svc := image.NewService(repo, store, zerolog.Nop())

	// the record delete is authoritative; a failed object delete never aborts it
	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.Equal(t, 1, repo.deleteCalls)
}

func TestDeleteRecordFailureAfterObjectGone(t *testing.T) {
	repo := &mockRepository{
		GetByIDFunc: func(_ context.Context, id int64) (*image.Image, error) {
			return &image.Image{ID: id, URL: "http://localhost:9000/images/k.png"}, nil
		},
		DeleteFunc: func(context.Context, int64) error {
			return errors.New("database down")
		},
	}
	store := &mockStorage{}
	svc := image.NewService(repo, store, zerolog.Nop())

	// dangling record: the object is gone but the row survives
	err := svc.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, []string{"k.png"}, store.deleteCalls)
}

func TestListPassesThrough(t *testing.T) {
	want := []image.Image{{ID: 3}, {ID: 2}, {ID: 1}}
	repo := &mockRepository{
		GetAllFunc: func(context.Context) ([]image.Image, error) {
			return want, nil
		},
	}
	svc := image.NewService(repo, &mockStorage{}, zerolog.Nop())

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
