// Package metadata is the client's local key-value store: a single SQLite
// table mapping string keys to opaque byte values.
package metadata

import (
	"context"
)

// Repository is a durable key-value store.
//
// Get returns common.ErrorNotFound for absent keys. Delete is idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
