package storage

import (
	"context"
	"io"
)

// BlobStore persists uploaded media bytes and resolves stored paths to
// URLs clients can fetch. The stored path is what the database records;
// it must stay meaningful across process restarts.
type BlobStore interface {
	// Save writes the blob and returns the stable path to record.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// URL resolves a stored path to a fetchable URL.
	URL(ctx context.Context, path string) (string, error)
}
