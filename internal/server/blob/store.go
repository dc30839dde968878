// Package blob holds the object storage behind uploaded photos.
package blob

import (
	"context"
	"io"
)

// Object is a stored blob opened for reading. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store keeps opaque bytes under slash-separated keys. Put overwrites an
// existing key. Get returns common.ErrorNotFound for an unknown key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
}
