package common

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are carried by the session token the backend issues. The
// user fields let a client that only received a token (the redirect-based
// sign-in) rebuild its user record.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID     int64  `json:"uid"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	FirstLogin bool   `json:"first_login"`
}
