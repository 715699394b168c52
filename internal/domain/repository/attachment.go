package repository

import (
	"context"
	"io"
)

// AttachmentStore keeps uploaded files addressable by name.
// Write never replaces an existing name and fails with errors.ErrAlreadyExists.
// Open returns errors.ErrNotFound for unknown names.
type AttachmentStore interface {
	Write(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}
