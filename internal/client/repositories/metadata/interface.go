// Package metadata keeps small named values of the local session: the guest
// flag and the identity tokens.
package metadata

import (
	"context"
)

// Repository is a key/value store. Get returns (nil, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
