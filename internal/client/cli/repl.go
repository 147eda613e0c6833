package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dmitrijs2005/greed/internal/client/flow"
)

// runREPL reads one command per line from a.in and dispatches it. Command
// errors are reported by the handlers themselves; the loop only stops on
// exit, end of input or ctx cancellation.
func runREPL(ctx context.Context, a *App) {
	for {
		if ctx.Err() != nil {
			return
		}

		a.printf("%s", a.prompt())
		line, err := a.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			a.println()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "login":
			provider := a.config.Provider
			if len(args) > 0 {
				provider = args[0]
			}
			a.Login(ctx, provider)
		case "redirect":
			if len(args) == 0 {
				a.printf("Usage: redirect <url>\nStart the browser sign-in at %s\n", a.auth.GoogleLoginURL())
				continue
			}
			a.Redirect(ctx, args[0])
		case "onboard":
			a.Onboard(ctx)
		case "stats":
			a.Stats(ctx)
		case "whoami":
			a.WhoAmI()
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			a.println("Bye!")
			return
		default:
			a.println("Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	switch a.state.Flow.State() {
	case flow.Onboarding:
		a.println("Available commands: onboard, whoami, logout, exit")
	case flow.Authenticated:
		if a.canOnboard() {
			a.println("Available commands: onboard, stats, whoami, logout, exit")
			return
		}
		a.println("Available commands: stats, whoami, logout, exit")
	default:
		a.println("Available commands: login [apple|google], redirect <url>, exit")
	}
}
