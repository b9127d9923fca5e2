package storage

import (
	"context"
	"io"
)

// BlobStore keeps uploaded files. Put returns the public URL of the stored
// object.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Key namespaces.
const (
	Recordings = "recordings"
	Resumes    = "resumes"
	Questions  = "questions"
	Profiles   = "profiles"
)

// Default is the store used by the HTTP handlers.
var Default BlobStore
