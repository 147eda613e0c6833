package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/greed/internal/client/models"
	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoRedirectToken means a deep link arrived without a token parameter.
var ErrNoRedirectToken = errors.New("redirect carries no token")

// ParseRedirect extracts the session token from the deep link the backend
// redirects to at the end of the Google sign-in, e.g.
// greed://auth?token=eyJ...
func ParseRedirect(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse redirect: %w", err)
	}

	values := u.Query()
	if len(values["token"]) == 0 && u.Fragment != "" {
		// some providers put parameters into the fragment
		values, _ = url.ParseQuery(u.Fragment)
	}

	token := strings.TrimSpace(values.Get("token"))
	if token == "" {
		return "", ErrNoRedirectToken
	}
	return token, nil
}

// SessionFromToken rebuilds a session from the user claims of a session
// token. The signature is not checked: the client cannot verify it and
// does not need to, the backend validates the token on every request.
func SessionFromToken(token string) (*models.Session, error) {
	claims := &common.SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: token carries no user", common.ErrInvalidToken)
	}

	return &models.Session{
		Token: token,
		User: &models.User{
			ID:         claims.UserID,
			Email:      claims.Email,
			Name:       claims.Name,
			FirstLogin: claims.FirstLogin,
		},
	}, nil
}
