package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/greed/internal/client/client"
	"github.com/dmitrijs2005/greed/internal/client/config"
	"github.com/dmitrijs2005/greed/internal/client/flow"
	"github.com/dmitrijs2005/greed/internal/client/identity"
	"github.com/dmitrijs2005/greed/internal/client/models"
	"github.com/dmitrijs2005/greed/internal/client/services"
	"github.com/dmitrijs2005/greed/internal/client/session"
	"github.com/dmitrijs2005/greed/internal/logging"
)

// authService is the part of *services.AuthService the screens use.
type authService interface {
	Login(ctx context.Context, p identity.Provider) (flow.State, error)
	LoginWithRedirect(ctx context.Context, redirectURL string) (flow.State, error)
	Restore(ctx context.Context) flow.State
	CurrentUser(ctx context.Context) (*models.User, bool)
	CompleteOnboarding(ctx context.Context, userID int64) (bool, error)
	GetUserStats(ctx context.Context, userID int64) (*models.Stats, error)
	GoogleLoginURL() string
	Logout(ctx context.Context) error
}

// newProvider builds the identity provider used by "login". Tests replace it.
var newProvider = func(name string, in *bufio.Reader, out io.Writer) identity.Provider {
	return identity.NewPromptProvider(name, in, out)
}

// AppState is everything the screens share: where the login flow stands,
// who is signed in and the last statistics fetched.
type AppState struct {
	Flow  *flow.Machine
	User  *models.User
	Stats *models.Stats
}

type App struct {
	config *config.Config
	auth   authService
	state  *AppState
	logger logging.Logger
	in     *bufio.Reader
	out    io.Writer
	db     *sql.DB
}

// NewApp wires the local store, the HTTP transport and the auth service.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(cfg.ServerURL, client.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.NewStore(db, logger)
	auth := services.NewAuthService(apiClient, store, logger)

	a := newApp(cfg, auth, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(cfg *config.Config, auth authService, logger logging.Logger, in *bufio.Reader, out io.Writer) *App {
	return &App{
		config: cfg,
		auth:   auth,
		state:  &AppState{Flow: flow.NewMachine(logger)},
		logger: logger.With("module", "cli"),
		in:     in,
		out:    out,
	}
}

// State exposes the shared application state.
func (a *App) State() *AppState { return a.state }

// Run restores a persisted session and then serves the REPL until exit,
// end of input or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	a.println("Welcome to Greed (type 'help' for commands)")
	a.restore(ctx)
	runREPL(ctx, a)
	return nil
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error(context.Background(), "error closing database", "error", err)
		}
	}
}

func (a *App) restore(ctx context.Context) {
	if a.auth.Restore(ctx) != flow.Authenticated {
		return
	}
	user, ok := a.auth.CurrentUser(ctx)
	if !ok {
		return
	}
	if _, err := a.state.Flow.Fire(ctx, flow.SessionRestored); err != nil {
		a.logger.Error(ctx, "error restoring session", "error", err)
		return
	}
	a.state.User = user
	a.printf("Signed in as %s\n", user.DisplayName())
	if user.FirstLogin {
		a.println("Onboarding is not finished yet. Type 'onboard' to complete it.")
	}
}

func (a *App) prompt() string {
	s := string(a.state.Flow.State())
	if a.state.User != nil {
		s = a.state.User.DisplayName() + " " + s
	}
	return fmt.Sprintf("greed (%s) > ", s)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
