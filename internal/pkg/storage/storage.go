package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage keeps generated report files.
type FileStorage interface {
	// Save writes the content under path and returns the cleaned path
	Save(ctx context.Context, content io.Reader, path string) (string, error)

	// Open retrieves a file
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file, missing files are not an error
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
