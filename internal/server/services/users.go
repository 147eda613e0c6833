// Package services contains server-side business logic. This file implements
// UserService: identity exchange, onboarding and statistics.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/dmitrijs2005/greed/internal/logging"
	"github.com/dmitrijs2005/greed/internal/server/auth"
	"github.com/dmitrijs2005/greed/internal/server/config"
	"github.com/dmitrijs2005/greed/internal/server/models"
	"github.com/dmitrijs2005/greed/internal/server/repositories/users"
)

// IdentityVerifier checks identity tokens. *auth.IdentityVerifier satisfies it.
type IdentityVerifier interface {
	Verify(provider, idToken string) (*auth.Identity, error)
}

type UserService struct {
	repo                  users.Repository
	verifier              IdentityVerifier
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	logger                logging.Logger
}

func NewUserService(repo users.Repository, verifier IdentityVerifier, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		repo:                  repo,
		verifier:              verifier,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		logger:                logger.With("module", "user_service"),
	}
}

// NewIdentityVerifier builds the development identity verifier from cfg.
func NewIdentityVerifier(cfg *config.Config) *auth.IdentityVerifier {
	return auth.NewIdentityVerifier(cfg.Audience, map[string]auth.ProviderKey{
		common.ProviderApple:  {Issuer: auth.AppleIssuer, Secret: []byte(cfg.AppleSecret)},
		common.ProviderGoogle: {Issuer: auth.GoogleIssuer, Secret: []byte(cfg.GoogleSecret)},
	})
}

// VerifyIdentity exchanges an identity token for a session token, creating
// the account on first sight.
func (s *UserService) VerifyIdentity(ctx context.Context, provider, idToken string) (*models.User, string, error) {
	identity, err := s.verifier.Verify(provider, idToken)
	if err != nil {
		return nil, "", err
	}

	user, created, err := s.repo.FindOrCreate(ctx, &models.User{
		Provider: identity.Provider,
		Subject:  identity.Subject,
		Email:    identity.Email,
		Name:     identity.Name,
	})
	if err != nil {
		s.logger.Error(ctx, "error finding user", "error", err)
		return nil, "", common.ErrorInternal
	}
	if created {
		s.logger.Info(ctx, "user created", "user_id", user.ID, "provider", identity.Provider)
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "error signing token", "error", err)
		return nil, "", common.ErrorInternal
	}
	return user, token, nil
}

// Authenticate resolves a session token to its user id.
func (s *UserService) Authenticate(token string) (int64, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// CompleteOnboarding clears first_login of userID. Callers may only
// onboard themselves.
func (s *UserService) CompleteOnboarding(ctx context.Context, callerID, userID int64) error {
	if callerID != userID {
		return common.ErrorForbidden
	}
	if err := s.repo.CompleteOnboarding(ctx, userID); err != nil {
		return s.mapRepoError(ctx, err)
	}
	s.logger.Info(ctx, "onboarding completed", "user_id", userID)
	return nil
}

// Stats returns the statistics of userID. Callers may only read their own.
func (s *UserService) Stats(ctx context.Context, callerID, userID int64) (*models.Stats, error) {
	if callerID != userID {
		return nil, common.ErrorForbidden
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapRepoError(ctx, err)
	}
	return user.Stats(), nil
}

func (s *UserService) mapRepoError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.logger.Error(ctx, "repository error", "error", err)
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
