// Package client implements the client session controller: the single
// owner of session, conversation and admin view state. All mutation goes
// through the operations defined here; view code only reads snapshots.
package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/cricket/pkg/api"
)

// SessionState is the authentication state of the controller.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateValidating
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Role tags one conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Turn is one message unit in the conversation: user input, assistant
// reply, or error notice. Turns are never mutated or removed once
// appended.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Backend is the slice of the HTTP API the controller depends on.
// *api.Client satisfies it.
type Backend interface {
	LoginURL() string
	Profile(ctx context.Context, token string) (api.Profile, error)
	Chat(ctx context.Context, token, message string) (api.ChatReply, error)
	History(ctx context.Context, token string) ([]api.ChatRecord, error)
	AdminStats(ctx context.Context, token string) (api.AdminStats, error)
	AdminUsers(ctx context.Context, token string) ([]api.UserRecord, error)
	ConfigureKey(ctx context.Context, token, key, userEmail string) error
	ManageAdmin(ctx context.Context, token, email, action string) error
}

// Controller owns all client-side state. Network calls run on the
// caller's goroutine; the in-flight guards make overlapping chat sends
// and admin mutations local no-ops rather than races.
type Controller struct {
	backend Backend
	tokens  *TokenStore
	logger  zerolog.Logger

	mu      sync.Mutex
	state   SessionState
	profile *api.Profile
	// epoch identifies the current session; results of calls that settle
	// after logout are discarded when the epoch no longer matches.
	epoch string

	turns   []Turn
	sending bool

	stats    *api.AdminStats
	roster   []api.UserRecord
	mutating bool
}

// New creates a Controller backed by the given API client and token store.
func New(backend Backend, tokens *TokenStore) *Controller {
	return &Controller{
		backend: backend,
		tokens:  tokens,
		logger:  log.With().Str("component", "controller").Logger(),
		state:   StateUnauthenticated,
		epoch:   uuid.NewString(),
	}
}

// State returns the current session state.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Profile returns the validated profile, or nil when unauthenticated.
func (c *Controller) Profile() *api.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	p := *c.profile
	return &p
}

// IsAdmin reports whether the current session is privileged.
func (c *Controller) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile != nil && c.profile.IsAdmin
}

// Turns returns a copy of the conversation.
func (c *Controller) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Sending reports whether a chat send is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Stats returns the last fetched admin statistics, or nil.
func (c *Controller) Stats() *api.AdminStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return nil
	}
	s := *c.stats
	return &s
}

// Roster returns a copy of the last fetched user roster.
func (c *Controller) Roster() []api.UserRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.UserRecord, len(c.roster))
	copy(out, c.roster)
	return out
}

// Mutating reports whether an admin mutation is in flight.
func (c *Controller) Mutating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mutating
}

// token re-reads the persisted credential. Authenticated calls read it at
// call time rather than caching it.
func (c *Controller) token() (string, error) {
	return c.tokens.Load()
}
