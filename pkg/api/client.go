// Package api implements the typed HTTP client for the chat web-app
// backend. All business logic (authentication, chat completion, admin
// authorization) lives server-side; this package only shapes requests and
// decodes responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, body)
}

// IsUnauthorized reports whether err is a 401/403 backend rejection.
func IsUnauthorized(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
	}
	return false
}

// Client talks to the backend HTTP surface. The bearer token is supplied
// per call so the caller can re-read persisted credentials before every
// authenticated request.
type Client struct {
	baseURL string
	httpC   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpC = h }
}

// New creates a Client for the given backend base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpC:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginURL returns the provider-login entry point. Navigating a browser
// there starts the OAuth round-trip that eventually redirects back with a
// one-time token.
func (c *Client) LoginURL() string {
	return c.baseURL + "/api/login/google"
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, token string) (Profile, error) {
	var out Profile
	err := c.do(ctx, http.MethodGet, "/api/user/profile", token, nil, &out)
	return out, err
}

// Chat submits one user message and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, token, message string) (ChatReply, error) {
	var out ChatReply
	err := c.do(ctx, http.MethodPost, "/api/chat", token, chatRequest{Message: message}, &out)
	return out, err
}

// History returns the user's recent server-side chat exchanges.
func (c *Client) History(ctx context.Context, token string) ([]ChatRecord, error) {
	var out historyResponse
	if err := c.do(ctx, http.MethodGet, "/api/chat/history", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

// AdminStats fetches the aggregate admin statistics.
func (c *Client) AdminStats(ctx context.Context, token string) (AdminStats, error) {
	var out AdminStats
	err := c.do(ctx, http.MethodGet, "/api/admin/stats", token, nil, &out)
	return out, err
}

// AdminUsers fetches the full user roster.
func (c *Client) AdminUsers(ctx context.Context, token string) ([]UserRecord, error) {
	var out usersResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// ConfigureKey sets the provider API key. An empty userEmail sets the
// default key for all users; otherwise the key is scoped to that account.
func (c *Client) ConfigureKey(ctx context.Context, token, key, userEmail string) error {
	req := configureRequest{OpenAIKey: key}
	if userEmail != "" {
		req.UserEmail = &userEmail
	}
	return c.do(ctx, http.MethodPost, "/api/admin/configure", token, req, nil)
}

// ManageAdmin grants or revokes admin privilege for an account. Action is
// "add" or "remove".
func (c *Client) ManageAdmin(ctx context.Context, token, email, action string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/manage-admin", token, manageAdminRequest{Email: email, Action: action}, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "marshal %s request", path)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrapf(err, "build %s request", path)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpC.Do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("backend request failed")
		return errors.Wrapf(&StatusError{Code: resp.StatusCode, Body: string(raw)}, "call %s", path)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}
