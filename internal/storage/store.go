package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when the document does not exist.
var ErrNotFound = errors.New("storage: document not found")

// ErrInvalidName is returned for names that are empty or escape the store.
var ErrInvalidName = errors.New("storage: invalid document name")

// Store reads and writes named documents.
type Store interface {
	// Read returns the full document, or ErrNotFound.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the document. Readers see either the old or the new
	// content, never a partial write.
	Write(ctx context.Context, name string, data []byte) error

	// Remove deletes the document. Removing a missing document is not an error.
	Remove(ctx context.Context, name string) error
}
