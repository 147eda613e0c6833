// Package httpserver exposes the Greed REST API:
//
//	POST /auth/{provider}/verify     identity token -> {token, user}
//	POST /user/complete-onboarding   bearer; {userId} -> {success}
//	GET  /user/{id}/stats            bearer; statistics of the caller
//	GET  /healthz                    liveness
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/greed/internal/logging"
	"github.com/dmitrijs2005/greed/internal/server/models"
	"github.com/gorilla/mux"
)

// UserService is the business logic behind the API. *services.UserService
// satisfies it.
type UserService interface {
	VerifyIdentity(ctx context.Context, provider, idToken string) (*models.User, string, error)
	Authenticate(token string) (int64, error)
	CompleteOnboarding(ctx context.Context, callerID, userID int64) error
	Stats(ctx context.Context, callerID, userID int64) (*models.Stats, error)
}

// listen opens the server socket. Tests replace it to learn the bound address.
var listen = net.Listen

// HealthFunc reports whether the storage backend is reachable.
type HealthFunc func(ctx context.Context) error

type HTTPServer struct {
	address string
	users   UserService
	health  HealthFunc
	logger  logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, us UserService, health HealthFunc) *HTTPServer {
	if health == nil {
		health = func(context.Context) error { return nil }
	}
	return &HTTPServer{
		address: address,
		users:   us,
		health:  health,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the route table.
func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.loggingMiddleware)

	r.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/{provider}/verify", s.VerifyIdentity).Methods(http.MethodPost)

	user := r.PathPrefix("/user").Subrouter()
	user.Use(s.authMiddleware)
	user.HandleFunc("/complete-onboarding", s.CompleteOnboarding).Methods(http.MethodPost)
	user.HandleFunc("/{id}/stats", s.UserStats).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// only after in-flight requests have completed or the shutdown timed out.
func (s *HTTPServer) Run(ctx context.Context) error {
	l, err := listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "error shutting down", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}
