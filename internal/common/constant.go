// Package common contains shared constants and sentinel errors used across
// Greed components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token value in the Authorization header.
const BearerScheme = "Bearer"

// ProviderApple and ProviderGoogle name the identity providers the mobile
// client ships with. Providers are open-ended strings on the wire.
const (
	ProviderApple  = "apple"
	ProviderGoogle = "google"
)
