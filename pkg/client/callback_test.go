package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/cricket/pkg/api"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestListenForToken_CapturesRedirectToken(t *testing.T) {
	addr := freeAddr(t)

	type result struct {
		token string
		err   error
	}
	resultCh := make(chan result, 1)
	go func() {
		tok, err := ListenForToken(context.Background(), addr)
		resultCh <- result{tok, err}
	}()

	// the backend redirect lands on the listener with ?token=...
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/?token=tok123", addr))
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	res := <-resultCh
	require.NoError(t, res.err)
	require.Equal(t, "tok123", res.token)
}

func TestListenForToken_ContextCancelled(t *testing.T) {
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ListenForToken(ctx, addr)
	require.Error(t, err)
}

func TestBeginLogin_CompletesSessionFromCallback(t *testing.T) {
	backend := &fakeBackend{profile: api.Profile{Name: "A", Email: "a@x.com"}}
	ctrl, store := newTestController(t, backend)
	addr := freeAddr(t)

	opened := make(chan string, 1)
	type result struct {
		state SessionState
		err   error
	}
	resultCh := make(chan result, 1)
	go func() {
		state, err := ctrl.BeginLogin(context.Background(), addr, func(url string) error {
			opened <- url
			return nil
		})
		resultCh <- result{state, err}
	}()

	require.Equal(t, "http://backend.test/api/login/google", <-opened)

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/auth/callback?token=cb-tok", addr))
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	res := <-resultCh
	require.NoError(t, res.err)
	require.Equal(t, StateAuthenticated, res.state)

	stored, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "cb-tok", stored)
}
