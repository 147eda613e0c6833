// Package models defines client-side data models of the Greed session core.
package models

// User is the backend user record as the client sees it. FirstLogin is true
// until the onboarding flow has been completed server-side.
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	FirstLogin bool   `json:"first_login"`
}

// DisplayName prefers the name and falls back to the e-mail address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
