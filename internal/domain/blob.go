package domain

import (
	"context"
	"io"
)

// BlobWriter uploads data to object storage. Quote snapshots are append-only;
// nothing in this process reads them back.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
