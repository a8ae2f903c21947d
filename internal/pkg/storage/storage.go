package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is wrapped by Get when no blob exists at the path.
var ErrObjectNotFound = errors.New("object not found")

// Storage stores opaque blobs under relative paths. Property images go
// through it; the driver is chosen by STORAGE_DRIVER.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error

	// Get returns a reader for the blob, or an error wrapping ErrObjectNotFound.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is idempotent; removing a missing blob is not an error.
	Delete(ctx context.Context, path string) error
}
