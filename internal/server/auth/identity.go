package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Well-known issuers of the supported identity providers.
const (
	AppleIssuer  = "https://appleid.apple.com"
	GoogleIssuer = "https://accounts.google.com"
)

// ProviderKey describes how identity tokens of one provider are checked.
// The reference backend verifies HMAC-signed tokens with a shared secret;
// production deployments would plug the provider's published keys in here.
type ProviderKey struct {
	Issuer string
	Secret []byte
}

// Identity is the verified content of an identity token.
type Identity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// IdentityClaims are the claims read from identity tokens.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type IdentityVerifier struct {
	audience  string
	providers map[string]ProviderKey
}

// NewIdentityVerifier checks tokens against audience. Providers without a
// secret are left out.
func NewIdentityVerifier(audience string, providers map[string]ProviderKey) *IdentityVerifier {
	v := &IdentityVerifier{audience: audience, providers: make(map[string]ProviderKey, len(providers))}
	for name, key := range providers {
		if len(key.Secret) == 0 {
			continue
		}
		v.providers[strings.ToLower(name)] = key
	}
	return v
}

// Verify checks an identity token issued by provider. Unknown providers
// yield common.ErrUnknownProvider, rejected tokens wrap
// common.ErrInvalidToken.
func (v *IdentityVerifier) Verify(provider, idToken string) (*Identity, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	key, ok := v.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownProvider, provider)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(key.Issuer),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (interface{}, error) {
		return key.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", common.ErrInvalidToken)
	}

	return &Identity{
		Provider: provider,
		Subject:  claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
	}, nil
}
