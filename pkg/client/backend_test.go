package client

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/cricket/pkg/api"
)

// fakeBackend records calls and returns canned responses. Chat and
// ManageAdmin can be gated to hold a call in flight.
type fakeBackend struct {
	mu sync.Mutex

	profile      api.Profile
	profileErr   error
	profileCalls int

	chatReply   api.ChatReply
	chatErr     error
	chatCalls   int
	chatGate    chan struct{}
	chatStarted chan struct{}

	stats      api.AdminStats
	statsErr   error
	statsCalls int

	users      []api.UserRecord
	usersErr   error
	usersCalls int

	manageCalls   []string
	manageErr     error
	manageGate    chan struct{}
	manageStarted chan struct{}

	configureCalls []string
	configureErr   error

	history []api.ChatRecord
}

func (f *fakeBackend) LoginURL() string { return "http://backend.test/api/login/google" }

func (f *fakeBackend) Profile(_ context.Context, token string) (api.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.profileErr != nil {
		return api.Profile{}, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeBackend) Chat(_ context.Context, token, message string) (api.ChatReply, error) {
	f.mu.Lock()
	f.chatCalls++
	gate := f.chatGate
	started := f.chatStarted
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chatErr != nil {
		return api.ChatReply{}, f.chatErr
	}
	return f.chatReply, nil
}

func (f *fakeBackend) History(_ context.Context, token string) ([]api.ChatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history, nil
}

func (f *fakeBackend) AdminStats(_ context.Context, token string) (api.AdminStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.statsErr != nil {
		return api.AdminStats{}, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeBackend) AdminUsers(_ context.Context, token string) ([]api.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usersCalls++
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func (f *fakeBackend) ConfigureKey(_ context.Context, token, key, userEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configureCalls = append(f.configureCalls, fmt.Sprintf("%s:%s", key, userEmail))
	return f.configureErr
}

func (f *fakeBackend) ManageAdmin(_ context.Context, token, email, action string) error {
	f.mu.Lock()
	f.manageCalls = append(f.manageCalls, fmt.Sprintf("%s:%s", action, email))
	gate := f.manageGate
	started := f.manageStarted
	err := f.manageErr
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeBackend) numManageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.manageCalls)
}

func newTestController(t *testing.T, backend *fakeBackend) (*Controller, *TokenStore) {
	t.Helper()
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	return New(backend, store), store
}

// authenticate resolves a session against the fake backend with a stored
// token.
func authenticate(t *testing.T, ctrl *Controller, store *TokenStore) {
	t.Helper()
	require.NoError(t, store.Save("tok-test"))
	state, err := ctrl.ResolveSession(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, StateAuthenticated, state)
}
