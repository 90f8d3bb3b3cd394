package repository

import (
	"context"
	"io"
	"time"
)

// ObjectStorage defines the interface for the artifact archive.
// Implementations are provided by the infrastructure layer.
type ObjectStorage interface {
	// Upload stores an artifact in the archive.
	// key is the object path within the bucket
	// (e.g., "downloads/{video_id}/{filename}").
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an artifact from the archive.
	// Caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GeneratePresignedDownloadURL creates a presigned URL for fetching an
	// archived artifact. The URL is valid for the specified duration.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Exists checks if an artifact exists in the archive.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes an artifact from the archive.
	Delete(ctx context.Context, key string) error
}
