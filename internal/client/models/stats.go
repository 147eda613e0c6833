package models

import "encoding/json"

// Stats is the per-user statistics object served by GET /user/{id}/stats.
// Fields the client does not know about are preserved in Extra.
type Stats struct {
	UserID      int64   `json:"user_id"`
	GamesPlayed int64   `json:"games_played"`
	GamesWon    int64   `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
	Balance     int64   `json:"balance"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownStatsFields = map[string]struct{}{
	"user_id":      {},
	"games_played": {},
	"games_won":    {},
	"win_rate":     {},
	"balance":      {},
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (s *Stats) UnmarshalJSON(b []byte) error {
	type plain Stats
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for k := range knownStatsFields {
		delete(all, k)
	}

	*s = Stats(p)
	if len(all) > 0 {
		s.Extra = all
	}
	return nil
}
