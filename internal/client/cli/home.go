package cli

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/greed/internal/client/client"
	"github.com/dmitrijs2005/greed/internal/client/flow"
	"github.com/dmitrijs2005/greed/internal/client/services"
)

// Stats shows the home screen statistics.
func (a *App) Stats(ctx context.Context) {
	if a.state.Flow.State() != flow.Authenticated || a.state.User == nil {
		a.println("Sign in first")
		return
	}

	stats, err := a.auth.GetUserStats(ctx, a.state.User.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoToken) || errors.Is(err, client.ErrUnauthorized) {
			if err := a.auth.Logout(ctx); err != nil {
				a.logger.Error(ctx, "error clearing session", "error", err)
			}
			a.signOut(ctx)
			a.println("Your session has expired, please log in again")
			return
		}
		a.alert("Could not load statistics", err)
		return
	}
	a.state.Stats = stats

	a.printf("Games played: %d\n", stats.GamesPlayed)
	a.printf("Games won:    %d\n", stats.GamesWon)
	a.printf("Win rate:     %.1f%%\n", stats.WinRate*100)
	a.printf("Balance:      %d\n", stats.Balance)

	keys := make([]string, 0, len(stats.Extra))
	for k := range stats.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.printf("%s: %s\n", k, stats.Extra[k])
	}
}

// WhoAmI prints the current user and login state.
func (a *App) WhoAmI() {
	u := a.state.User
	if u == nil {
		a.printf("Not signed in (%s)\n", a.state.Flow.State())
		return
	}
	a.printf("%s <%s> id=%d (%s)\n", u.DisplayName(), u.Email, u.ID, a.state.Flow.State())
}
