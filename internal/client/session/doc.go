// Package session persists the authenticated client's session: an opaque
// bearer token and the user record it was issued for.
//
// The store keeps two entries in the local metadata table, "token" (raw
// string) and "user" (JSON-encoded models.User). Save writes both in one
// transaction, so a token is never stored without its user.
//
// Reads fail soft: storage errors and malformed user JSON are logged and
// reported as an absent session rather than returned to the caller.
package session
