// Package db selects and owns the storage backend of the server.
package db

import (
	"context"

	"github.com/dmitrijs2005/greed/internal/server/repositories/users"
)

// RepositoryManager vends the repositories of one storage backend.
type RepositoryManager interface {
	Users() users.Repository
	Ping(ctx context.Context) error
	Close() error
}

// NewRepositoryManager returns the PostgreSQL manager for dsn, or the
// in-memory one when dsn is empty.
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(ctx, dsn)
}
