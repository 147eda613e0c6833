package client

import (
	"context"

	"github.com/dmitrijs2005/greed/internal/client/models"
)

// Client is the transport contract to the Greed backend. Authenticated calls
// take the bearer token explicitly; sourcing it is the caller's concern.
type Client interface {
	VerifyIdentity(ctx context.Context, provider string, idToken string) (*models.Session, error)
	CompleteOnboarding(ctx context.Context, token string, userID int64) (bool, error)
	GetUserStats(ctx context.Context, token string, userID int64) (*models.Stats, error)
	GoogleLoginURL() string
	Ping(ctx context.Context) error
}
