package storage

import (
	"context"
	"io"
)

// FileStorage stores uploaded files under a relative key.
type FileStorage interface {
	// Upload writes the file and returns its cleaned key.
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public address of a stored key.
	URL(key string) string
}
