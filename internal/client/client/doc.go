// Package client contains the client-side transport to the Greed backend.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface): VerifyIdentity,
//     CompleteOnboarding, GetUserStats, GoogleLoginURL and Ping.
//  2. A JSON/HTTP implementation (see HTTPClient). It keeps no session
//     state; authenticated calls receive the bearer token as an argument.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *APIError carrying the status and the response body; 401 responses also
// match ErrUnauthorized and 403 responses ErrForbidden via errors.Is. Undecodable 2xx bodies wrap
// ErrMalformedResponse. Nothing is retried.
package client
