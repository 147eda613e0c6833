package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/greed/internal/client/models"
	"github.com/dmitrijs2005/greed/internal/common"
)

// maxErrorBody caps how much of an error response is kept in APIError.
const maxErrorBody = 4 << 10

// HTTPClient talks to the backend over JSON/HTTP. It keeps no session state.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises HTTPClient construction.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the per-request timeout. It works on a copy, so a client
// passed through WithHTTPClient is left untouched. Zero leaves requests
// bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewHTTPClient builds a client for the backend at base. A scheme-less base
// gets "http://"; an empty base falls back to http://localhost:8080.
func NewHTTPClient(base string, opts ...Option) (*HTTPClient, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:8080"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", base)
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised backend origin.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

type verifyRequest struct {
	IDToken string `json:"id_token"`
}

type verifyResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// VerifyIdentity exchanges a provider identity token for a session.
func (c *HTTPClient) VerifyIdentity(ctx context.Context, provider string, idToken string) (*models.Session, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return nil, common.ErrUnknownProvider
	}

	var resp verifyResponse
	path := "/auth/" + url.PathEscape(provider) + "/verify"
	if err := c.do(ctx, http.MethodPost, path, verifyRequest{IDToken: idToken}, "", &resp); err != nil {
		return nil, err
	}

	sess := &models.Session{Token: resp.Token, User: resp.User}
	if !sess.Valid() {
		return nil, fmt.Errorf("%w: verify response without token or user", ErrMalformedResponse)
	}
	return sess, nil
}

type completeOnboardingRequest struct {
	UserID int64 `json:"userId"`
}

type completeOnboardingResponse struct {
	Success bool `json:"success"`
}

// CompleteOnboarding records onboarding completion for userID. It reports
// true only when the backend answers {"success": true}.
func (c *HTTPClient) CompleteOnboarding(ctx context.Context, token string, userID int64) (bool, error) {
	var resp completeOnboardingResponse
	err := c.do(ctx, http.MethodPost, "/user/complete-onboarding", completeOnboardingRequest{UserID: userID}, token, &resp)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

// GetUserStats fetches the statistics of userID.
func (c *HTTPClient) GetUserStats(ctx context.Context, token string, userID int64) (*models.Stats, error) {
	var stats models.Stats
	path := "/user/" + strconv.FormatInt(userID, 10) + "/stats"
	if err := c.do(ctx, http.MethodGet, path, nil, token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GoogleLoginURL is the page that starts the redirect-based Google sign-in.
// The backend finishes it by redirecting to the app's deep link with a
// token query parameter.
func (c *HTTPClient) GoogleLoginURL() string {
	return c.baseURL + "/auth/" + common.ProviderGoogle + "/login"
}

// Ping checks backend liveness.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, "", nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, token string, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerHeader(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
