package models

// Session is the persisted (token, user) pair of an authenticated client.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Valid reports whether the session satisfies the pairing invariant:
// a non-empty token always comes with a user record.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// NeedsOnboarding reports whether the session belongs to a user that has not
// completed onboarding yet.
func (s *Session) NeedsOnboarding() bool {
	return s.Valid() && s.User.FirstLogin
}
