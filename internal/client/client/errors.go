package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable means the request could not be sent or the response
	// could not be received.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is matched by APIError values carrying 401: the
	// bearer token is missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is matched by APIError values carrying 403: the token is
	// valid but the caller may not touch the requested resource.
	ErrForbidden = errors.New("forbidden")

	// ErrMalformedResponse means a 2xx response body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx response from the backend. Body holds the raw
// response body, trimmed.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// Is lets errors.Is match ErrUnauthorized on 401 and ErrForbidden on 403.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}
