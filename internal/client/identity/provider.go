// Package identity obtains third-party identity credentials (Sign in with
// Apple, Google, ...) for exchange against a Greed session.
//
// A Provider yields the raw identity token for its platform. Dismissing the
// platform sign-in is reported as ErrCancelled, which callers treat as a
// non-error outcome.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the user dismisses the sign-in.
var ErrCancelled = errors.New("sign-in cancelled")

// contextErr reports why ctx is done. A cancelled context is a dismissed
// sign-in, so it matches both ErrCancelled and context.Canceled.
func contextErr(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return err
}

// Provider is a source of identity credentials for one identity provider.
type Provider interface {
	// Name is the provider segment of POST /auth/{provider}/verify.
	Name() string
	// Credential returns the identity token or ErrCancelled.
	Credential(ctx context.Context) (string, error)
}

// StaticProvider hands out a credential known in advance, e.g. from a flag.
type StaticProvider struct {
	name       string
	credential string
}

func NewStaticProvider(name, credential string) *StaticProvider {
	return &StaticProvider{name: strings.ToLower(strings.TrimSpace(name)), credential: strings.TrimSpace(credential)}
}

func (p *StaticProvider) Name() string { return p.name }

func (p *StaticProvider) Credential(ctx context.Context) (string, error) {
	if err := contextErr(ctx); err != nil {
		return "", err
	}
	if p.credential == "" {
		return "", ErrCancelled
	}
	return p.credential, nil
}
