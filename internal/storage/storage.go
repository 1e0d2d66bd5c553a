package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long a presigned URL stays usable.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage is the object storage surface the services depend on. Uploads
// and downloads go directly between the client and the provider via
// presigned URLs; the API never proxies file bytes.
type FileStorage interface {
	// GeneratePresignedUploadURL returns a temporary URL accepting a PUT of
	// the object. The client must send the same Content-Type it was signed
	// with.
	GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a temporary URL serving a GET of
	// the object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes the object from the provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
