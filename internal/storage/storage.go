package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BlobStore is the object-storage contract the worker pipelines depend on.
// Keys are caller-generated; a key collision overwrites silently.
type BlobStore interface {
	// Put stores data under key and returns the publicly resolvable URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL the object will have once stored.
	URL(key string) string
}

// Options selects and configures a blob store backend.
type Options struct {
	Backend string // "s3" or "filesystem"
	Path    string // filesystem base directory
	BaseURL string // public URL prefix for filesystem objects
	Bucket  string
	Region  string
}

// New builds the blob store for the configured backend.
func New(ctx context.Context, opts Options) (BlobStore, error) {
	switch opts.Backend {
	case "s3":
		return NewS3Store(ctx, opts.Bucket, opts.Region)
	case "filesystem", "":
		return NewFileStore(opts.Path, opts.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// NewKey reserves a fresh blob key with the given extension, e.g. "png".
// The key is generated once at submit time and carried through the task
// payload so re-delivery writes to the same destination.
func NewKey(ext string) string {
	return fmt.Sprintf("%s.%s", uuid.NewString(), ext)
}
