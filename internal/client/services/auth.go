// Package services contains application services of the Greed client.
// This file defines the authentication service: identity exchange, session
// persistence, onboarding completion and authenticated reads.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greed/internal/client/client"
	"github.com/dmitrijs2005/greed/internal/client/flow"
	"github.com/dmitrijs2005/greed/internal/client/identity"
	"github.com/dmitrijs2005/greed/internal/client/models"
	"github.com/dmitrijs2005/greed/internal/logging"
)

// SessionStore is the persistence the service needs. *session.Store
// satisfies it.
type SessionStore interface {
	GetToken(ctx context.Context) (string, bool)
	GetUser(ctx context.Context) (*models.User, bool)
	Load(ctx context.Context) (*models.Session, bool)
	Save(ctx context.Context, token string, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
}

// AuthService sources the bearer token from the session store for every
// authenticated call, so callers never handle tokens directly.
type AuthService struct {
	client   client.Client
	sessions SessionStore
	logger   logging.Logger
}

func NewAuthService(c client.Client, sessions SessionStore, logger logging.Logger) *AuthService {
	return &AuthService{client: c, sessions: sessions, logger: logger.With("module", "auth_service")}
}

// VerifyIdentity exchanges an identity credential for a session without
// persisting it. A non-2xx answer is returned as *AuthenticationError.
func (a *AuthService) VerifyIdentity(ctx context.Context, provider, credential string) (*models.Session, error) {
	s, err := a.client.VerifyIdentity(ctx, provider, credential)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return nil, &AuthenticationError{Provider: provider, Status: apiErr.Status, Body: apiErr.Body}
		}
		return nil, fmt.Errorf("verify identity: %w", err)
	}
	return s, nil
}

// Login obtains a credential from p, verifies it and persists the session.
// It returns the state the login flow moves to. A dismissed sign-in yields
// identity.ErrCancelled and leaves the store untouched.
func (a *AuthService) Login(ctx context.Context, p identity.Provider) (flow.State, error) {
	credential, err := p.Credential(ctx)
	if err != nil {
		if errors.Is(err, identity.ErrCancelled) {
			a.logger.Info(ctx, "sign-in cancelled", "provider", p.Name())
		}
		return flow.Unauthenticated, err
	}

	s, err := a.VerifyIdentity(ctx, p.Name(), credential)
	if err != nil {
		a.logger.Warn(ctx, "identity verification failed", "provider", p.Name(), "error", err)
		return flow.Unauthenticated, err
	}

	return a.persist(ctx, s)
}

// LoginWithRedirect completes the browser sign-in from the deep link the
// backend redirects to.
func (a *AuthService) LoginWithRedirect(ctx context.Context, redirectURL string) (flow.State, error) {
	token, err := identity.ParseRedirect(redirectURL)
	if err != nil {
		return flow.Unauthenticated, err
	}
	s, err := identity.SessionFromToken(token)
	if err != nil {
		return flow.Unauthenticated, err
	}
	return a.persist(ctx, s)
}

func (a *AuthService) persist(ctx context.Context, s *models.Session) (flow.State, error) {
	if err := a.sessions.Save(ctx, s.Token, s.User); err != nil {
		return flow.Unauthenticated, err
	}

	a.logger.Info(ctx, "signed in", "user_id", s.User.ID, "first_login", s.User.FirstLogin)
	if s.User.FirstLogin {
		return flow.Onboarding, nil
	}
	return flow.Authenticated, nil
}

// Restore decides the initial state from what the store holds.
func (a *AuthService) Restore(ctx context.Context) flow.State {
	s, ok := a.sessions.Load(ctx)
	if !ok {
		return flow.Unauthenticated
	}
	a.logger.Debug(ctx, "session restored", "user_id", s.User.ID)
	return flow.Authenticated
}

// CurrentUser returns the stored user record.
func (a *AuthService) CurrentUser(ctx context.Context) (*models.User, bool) {
	return a.sessions.GetUser(ctx)
}

// CompleteOnboarding marks the onboarding of userID as done. It reports true
// only when the backend confirms with success == true; only then is the
// stored first_login flag cleared.
func (a *AuthService) CompleteOnboarding(ctx context.Context, userID int64) (bool, error) {
	token, ok := a.sessions.GetToken(ctx)
	if !ok {
		return false, &OnboardingError{Err: ErrNoToken}
	}

	success, err := a.client.CompleteOnboarding(ctx, token, userID)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return false, &OnboardingError{Status: apiErr.Status, Body: apiErr.Body, Err: err}
		}
		return false, &OnboardingError{Err: err}
	}
	if !success {
		a.logger.Warn(ctx, "onboarding not confirmed", "user_id", userID)
		return false, nil
	}

	if user, ok := a.sessions.GetUser(ctx); ok && user.ID == userID && user.FirstLogin {
		user.FirstLogin = false
		if err := a.sessions.UpdateUser(ctx, user); err != nil {
			a.logger.Error(ctx, "error updating stored user", "error", err)
		}
	}
	return true, nil
}

// GetUserStats fetches the statistics of userID with the stored token.
func (a *AuthService) GetUserStats(ctx context.Context, userID int64) (*models.Stats, error) {
	token, ok := a.sessions.GetToken(ctx)
	if !ok {
		return nil, ErrNoToken
	}

	stats, err := a.client.GetUserStats(ctx, token, userID)
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return stats, nil
}

// Ping checks backend liveness.
func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// GoogleLoginURL is where the browser sign-in starts.
func (a *AuthService) GoogleLoginURL() string {
	return a.client.GoogleLoginURL()
}

// Logout forgets the local session. The backend keeps no session state, so
// nothing is sent.
func (a *AuthService) Logout(ctx context.Context) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.logger.Info(ctx, "signed out")
	return nil
}
