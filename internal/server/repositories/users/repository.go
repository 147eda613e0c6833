// Package users persists player accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/greed/internal/server/models"
)

// Repository stores users. Lookups of missing users return
// common.ErrorNotFound.
type Repository interface {
	// FindOrCreate returns the user identified by (Provider, Subject) of u,
	// creating it with first_login set when absent. created reports which
	// case happened. A non-empty Email or Name refreshes the stored one.
	FindOrCreate(ctx context.Context, u *models.User) (user *models.User, created bool, err error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// CompleteOnboarding clears first_login. It is idempotent.
	CompleteOnboarding(ctx context.Context, id int64) error
}
