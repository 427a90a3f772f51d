package storage

import (
	"context"
	"io"
)

type FileStorage interface {
	// Upload stores file under path and returns the cleaned path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of a stored path
	URL(path string) string

	// PathFromURL reverses URL; ok is false for URLs this storage did not issue
	PathFromURL(url string) (path string, ok bool)

	Exists(ctx context.Context, path string) (bool, error)
}
