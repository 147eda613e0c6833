package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/dmitrijs2005/greed/internal/dbx"
	"github.com/dmitrijs2005/greed/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindOrCreate(ctx context.Context, u *models.User) (*models.User, bool, error) {
	query :=
		`INSERT INTO users (provider, subject, email, name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (provider, subject) DO UPDATE SET
		   email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
		   name  = COALESCE(NULLIF(EXCLUDED.name, ''), users.name)
		 RETURNING id, email, name, first_login, games_played, games_won, balance, created_at, (xmax = 0) AS created`

	user := &models.User{Provider: u.Provider, Subject: u.Subject}
	var created bool

	err := r.db.QueryRowContext(ctx, query, u.Provider, u.Subject, u.Email, u.Name).Scan(
		&user.ID, &user.Email, &user.Name, &user.FirstLogin,
		&user.GamesPlayed, &user.GamesWon, &user.Balance, &user.CreatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	return user, created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, provider, subject, email, name, first_login, games_played, games_won, balance, created_at
		 FROM users
		 WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Provider, &user.Subject, &user.Email, &user.Name, &user.FirstLogin,
		&user.GamesPlayed, &user.GamesWon, &user.Balance, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) CompleteOnboarding(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET first_login = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
