package services

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned by authenticated operations when the session store
// holds no bearer token. No request is sent in that case.
var ErrNoToken = errors.New("no auth token")

// AuthenticationError is a rejected identity exchange. Body is the raw
// response body of the backend.
type AuthenticationError struct {
	Provider string
	Status   int
	Body     string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication with %s failed: HTTP %d: %s", e.Provider, e.Status, e.Body)
}

// OnboardingError is a failed completion of the onboarding flow. Either the
// backend answered with a non-2xx Status, or Err carries the cause (ErrNoToken,
// a transport error).
type OnboardingError struct {
	Status int
	Body   string
	Err    error
}

func (e *OnboardingError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("onboarding failed: HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("onboarding failed: %v", e.Err)
}

func (e *OnboardingError) Unwrap() error { return e.Err }
