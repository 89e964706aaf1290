package domain

import (
	"context"
	"io"
	"time"
)

// BlobStorage is the object store behind uploads, NDA documents and curated
// resources. Keys are opaque paths like "{folderID}/{objectID}.pdf".
type BlobStorage interface {
	// Put stores a new object. Fails if the key already exists (no overwrite).
	Put(ctx context.Context, key string, r io.Reader, size int64, mime string) error
	// PresignGet issues a time-limited signed URL granting read access to key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Delete removes the object; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
