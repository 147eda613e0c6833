package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/greed/internal/server/migrations"
	"github.com/dmitrijs2005/greed/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// openDB and runMigrations are seams for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

var runMigrations = func(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

type PostgresRepositoryManager struct {
	db    *sql.DB
	users users.Repository
}

// NewPostgresRepositoryManager connects to dsn and brings the schema up to
// date.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &PostgresRepositoryManager{db: db, users: users.NewPostgresRepository(db)}, nil
}

func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error { return m.db.PingContext(ctx) }

func (m *PostgresRepositoryManager) Close() error { return m.db.Close() }
