// Package flow is the client's login state machine:
//
//	Unauthenticated --SubmitCredential-->    Authenticating
//	Unauthenticated --SessionRestored-->     Authenticated
//	Authenticating  --VerifiedFirstLogin-->  Onboarding
//	Authenticating  --Verified-->            Authenticated
//	Authenticating  --VerifyFailed-->        Unauthenticated
//	Authenticating  --Cancelled-->           Unauthenticated
//	Onboarding      --OnboardingCompleted--> Authenticated
//	Onboarding      --SessionLost-->         Unauthenticated
//	Authenticated   --Logout-->              Unauthenticated
//	Onboarding      --Logout-->              Unauthenticated
//
// The machine is linear; there is no backtracking besides the failure
// edges above.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/greed/internal/client/models"
	"github.com/dmitrijs2005/greed/internal/logging"
)

type State string

const (
	Unauthenticated State = "unauthenticated"
	Authenticating  State = "authenticating"
	Onboarding      State = "onboarding"
	Authenticated   State = "authenticated"
)

type Event string

const (
	SubmitCredential    Event = "submit_credential"
	Verified            Event = "verified"
	VerifiedFirstLogin  Event = "verified_first_login"
	VerifyFailed        Event = "verify_failed"
	Cancelled           Event = "cancelled"
	OnboardingCompleted Event = "onboarding_completed"
	SessionLost         Event = "session_lost"
	SessionRestored     Event = "session_restored"
	Logout              Event = "logout"
)

// ErrInvalidTransition is returned when an event does not apply to the
// current state.
var ErrInvalidTransition = errors.New("invalid transition")

type edge struct {
	from State
	on   Event
}

var transitions = map[edge]State{
	{Unauthenticated, SubmitCredential}:  Authenticating,
	{Unauthenticated, SessionRestored}:   Authenticated,
	{Authenticating, VerifiedFirstLogin}: Onboarding,
	{Authenticating, Verified}:           Authenticated,
	{Authenticating, VerifyFailed}:       Unauthenticated,
	{Authenticating, Cancelled}:          Unauthenticated,
	{Onboarding, OnboardingCompleted}:    Authenticated,
	{Onboarding, SessionLost}:            Unauthenticated,
	{Onboarding, Logout}:                 Unauthenticated,
	{Authenticated, Logout}:              Unauthenticated,
}

// Next returns the state reached from s on e.
func Next(s State, e Event) (State, error) {
	next, ok := transitions[edge{s, e}]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
	}
	return next, nil
}

// VerifiedEvent picks the event that follows a successful identity exchange.
func VerifiedEvent(u *models.User) Event {
	if u != nil && u.FirstLogin {
		return VerifiedFirstLogin
	}
	return Verified
}

// Machine tracks the current state. It is safe for concurrent use.
type Machine struct {
	mu     sync.Mutex
	state  State
	logger logging.Logger
}

func NewMachine(logger logging.Logger) *Machine {
	return &Machine{state: Unauthenticated, logger: logger.With("module", "login_flow")}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Fire applies e. On an invalid transition the state is left unchanged.
func (m *Machine) Fire(ctx context.Context, e Event) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := Next(m.state, e)
	if err != nil {
		m.logger.Warn(ctx, "rejected transition", "state", m.state, "event", e)
		return m.state, err
	}

	m.logger.Debug(ctx, "transition", "from", m.state, "event", e, "to", next)
	m.state = next
	return next, nil
}

// Reset forces the machine back to Unauthenticated, e.g. when the session
// store turns out to be empty.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Unauthenticated
}
