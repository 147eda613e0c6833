// Package models holds the server-side domain types.
package models

import "time"

// User is a player account, keyed by the identity provider and the
// provider's subject identifier.
type User struct {
	ID          int64
	Provider    string
	Subject     string
	Email       string
	Name        string
	FirstLogin  bool
	GamesPlayed int64
	GamesWon    int64
	Balance     int64
	CreatedAt   time.Time
}

// Stats is the per-user statistics projection.
type Stats struct {
	UserID      int64   `json:"user_id"`
	GamesPlayed int64   `json:"games_played"`
	GamesWon    int64   `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
	Balance     int64   `json:"balance"`
}

// Stats derives the statistics of u. WinRate is zero before the first game.
func (u *User) Stats() *Stats {
	s := &Stats{
		UserID:      u.ID,
		GamesPlayed: u.GamesPlayed,
		GamesWon:    u.GamesWon,
		Balance:     u.Balance,
	}
	if u.GamesPlayed > 0 {
		s.WinRate = float64(u.GamesWon) / float64(u.GamesPlayed)
	}
	return s
}
