package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the persistence operations the service needs.
type Repository interface {
	Create(ctx context.Context, name, url string) (*Image, error)
	GetAll(ctx context.Context) ([]Image, error)
	GetByID(ctx context.Context, id int64) (*Image, error)
	Delete(ctx context.Context, id int64) error
}

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgresRepository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new image record and returns it with its assigned id and timestamp.
func (r *PostgresRepository) Create(ctx context.Context, name, url string) (*Image, error) {
	img := &Image{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO images (name, url)
		 VALUES ($1, $2)
		 RETURNING id, name, url, created_at`,
		name, url,
	).Scan(&img.ID, &img.Name, &img.URL, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return img, nil
}

// GetAll returns every image record, newest first.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]Image, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, url, created_at
		 FROM images
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.Name, &img.URL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// GetByID fetches an image record by its id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Image, error) {
	img := &Image{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, url, created_at
		 FROM images WHERE id = $1`,
		id,
	).Scan(&img.ID, &img.Name, &img.URL, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get image by id: %w", err)
	}
	return img, nil
}

// Delete removes an image record by its id.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
