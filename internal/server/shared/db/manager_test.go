package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/greed/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDB(t *testing.T, migrateErr error) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	origOpen, origMigrate := openDB, runMigrations
	openDB = func(string) (*sql.DB, error) { return db, nil }
	runMigrations = func(context.Context, *sql.DB) error { return migrateErr }
	t.Cleanup(func() { openDB, runMigrations = origOpen, origMigrate })
	return mock
}

func TestNewRepositoryManager_EmptyDSNIsInMemory(t *testing.T) {
	m, err := NewRepositoryManager(context.Background(), "")
	require.NoError(t, err)

	_, ok := m.(*InMemoryRepositoryManager)
	require.True(t, ok)
	_, ok = m.Users().(*users.InMemoryRepository)
	assert.True(t, ok)
	assert.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close())
}

func TestNewPostgresRepositoryManager(t *testing.T) {
	mock := stubDB(t, nil)
	mock.ExpectPing()
	mock.ExpectPing()
	mock.ExpectClose()

	m, err := NewRepositoryManager(context.Background(), "postgres://x")
	require.NoError(t, err)

	_, ok := m.Users().(*users.PostgresRepository)
	assert.True(t, ok)
	require.NoError(t, m.Ping(context.Background()))
	require.NoError(t, m.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryManager_PingError(t *testing.T) {
	mock := stubDB(t, nil)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	_, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db ping error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryManager_MigrationError(t *testing.T) {
	mock := stubDB(t, errors.New("bad sql"))
	mock.ExpectPing()
	mock.ExpectClose()

	_, err := NewPostgresRepositoryManager(context.Background(), "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresRepositoryManager_OpenError(t *testing.T) {
	orig := openDB
	openDB = func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") }
	t.Cleanup(func() { openDB = orig })

	_, err := NewPostgresRepositoryManager(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db open error")
}
