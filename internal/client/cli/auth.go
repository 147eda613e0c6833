package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/greed/internal/client/client"
	"github.com/dmitrijs2005/greed/internal/client/flow"
	"github.com/dmitrijs2005/greed/internal/client/identity"
	"github.com/dmitrijs2005/greed/internal/client/services"
)

// Login runs the sign-in screen for provider.
func (a *App) Login(ctx context.Context, provider string) {
	if _, err := a.state.Flow.Fire(ctx, flow.SubmitCredential); err != nil {
		a.println("Already signed in, use 'logout' first")
		return
	}

	next, err := a.auth.Login(ctx, newProvider(provider, a.in, a.out))
	a.finishLogin(ctx, next, err)
}

// Redirect finishes a browser sign-in from its deep link.
func (a *App) Redirect(ctx context.Context, redirectURL string) {
	if _, err := a.state.Flow.Fire(ctx, flow.SubmitCredential); err != nil {
		a.println("Already signed in, use 'logout' first")
		return
	}

	next, err := a.auth.LoginWithRedirect(ctx, redirectURL)
	a.finishLogin(ctx, next, err)
}

func (a *App) finishLogin(ctx context.Context, next flow.State, err error) {
	switch {
	case errors.Is(err, identity.ErrCancelled):
		_, _ = a.state.Flow.Fire(ctx, flow.Cancelled)
		return
	case err != nil:
		_, _ = a.state.Flow.Fire(ctx, flow.VerifyFailed)
		a.alert("Sign-in failed", err)
		return
	}

	user, ok := a.auth.CurrentUser(ctx)
	if !ok {
		_, _ = a.state.Flow.Fire(ctx, flow.VerifyFailed)
		a.println("Sign-in failed: session was not stored")
		return
	}
	a.state.User = user

	if _, err := a.state.Flow.Fire(ctx, flow.VerifiedEvent(user)); err != nil {
		a.logger.Error(ctx, "error routing after sign-in", "error", err)
		return
	}

	if next == flow.Onboarding {
		a.printf("Welcome, %s! Type 'onboard' to finish setting up your account.\n", user.DisplayName())
		return
	}
	a.printf("Welcome back, %s!\n", user.DisplayName())
}

// Onboard completes the first-login onboarding.
func (a *App) Onboard(ctx context.Context) {
	if !a.canOnboard() {
		a.println("Nothing to onboard")
		return
	}
	restored := a.state.Flow.State() == flow.Authenticated

	ok, err := a.auth.CompleteOnboarding(ctx, a.state.User.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoToken) {
			if restored {
				if err := a.auth.Logout(ctx); err != nil {
					a.logger.Error(ctx, "error clearing session", "error", err)
				}
				a.signOut(ctx)
			} else {
				_, _ = a.state.Flow.Fire(ctx, flow.SessionLost)
				a.state.User = nil
			}
			a.println("Your session is gone, please log in again")
			return
		}
		a.alert("Onboarding failed", err)
		return
	}
	if !ok {
		a.println("Onboarding was not confirmed by the server, try again")
		return
	}

	if !restored {
		if _, err := a.state.Flow.Fire(ctx, flow.OnboardingCompleted); err != nil {
			a.logger.Error(ctx, "error routing after onboarding", "error", err)
			return
		}
	}
	a.state.User.FirstLogin = false
	a.println("You're all set!")
}

// canOnboard reports whether onboarding is pending: right after a first
// login, or for a restored session whose onboarding was never finished.
func (a *App) canOnboard() bool {
	if a.state.User == nil {
		return false
	}
	switch a.state.Flow.State() {
	case flow.Onboarding:
		return true
	case flow.Authenticated:
		return a.state.User.FirstLogin
	}
	return false
}

// Logout forgets the local session.
func (a *App) Logout(ctx context.Context) {
	if a.state.Flow.State() == flow.Unauthenticated {
		a.println("Not signed in")
		return
	}
	if err := a.auth.Logout(ctx); err != nil {
		a.alert("Logout failed", err)
		return
	}
	a.signOut(ctx)
	a.println("Signed out")
}

func (a *App) signOut(ctx context.Context) {
	if _, err := a.state.Flow.Fire(ctx, flow.Logout); err != nil {
		a.state.Flow.Reset()
	}
	a.state.User = nil
	a.state.Stats = nil
}

// alert prints err in user terms.
func (a *App) alert(title string, err error) {
	var (
		authErr *services.AuthenticationError
		onbErr  *services.OnboardingError
	)
	switch {
	case errors.Is(err, client.ErrUnavailable):
		a.printf("%s: server unavailable\n", title)
	case errors.As(err, &authErr):
		a.printf("%s: %s\n", title, authErr.Body)
	case errors.As(err, &onbErr) && onbErr.Status != 0:
		a.printf("%s: %s\n", title, onbErr.Body)
	default:
		a.printf("%s: %v\n", title, err)
	}
}
