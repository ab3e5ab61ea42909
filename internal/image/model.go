// Package image manages uploaded images: their bytes in object storage and
// their metadata records in the database.
package image

import (
	"errors"
	"time"
)

// Image is the persisted metadata record pointing at a stored object.
type Image struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNotFound is returned when no image exists for a given id.
var ErrNotFound = errors.New("image not found")
