package storage

import (
	"context"
	"io"
)

// FileStorage stores branding assets (the logo upload).
type FileStorage interface {
	// Upload stores a file and returns its public URL path.
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Delete removes a stored file. Deleting an absent file is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether a file is stored at path.
	Exists(ctx context.Context, path string) (bool, error)
}
