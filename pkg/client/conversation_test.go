package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/cricket/pkg/api"
)

func TestSend_AppendsUserThenAssistant(t *testing.T) {
	backend := &fakeBackend{
		profile:   api.Profile{Name: "A", Email: "a@x.com"},
		chatReply: api.ChatReply{Response: "hello!", Timestamp: "2024-01-01T00:00:00Z"},
	}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	reply, err := ctrl.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, RoleAssistant, reply.Role)
	require.Equal(t, "hello!", reply.Content)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), reply.Timestamp)

	turns := ctrl.Turns()
	require.Len(t, turns, 2)
	require.Equal(t, RoleUser, turns[0].Role)
	require.Equal(t, "hi", turns[0].Content)
	require.Equal(t, RoleAssistant, turns[1].Role)
	require.Equal(t, "hello!", turns[1].Content)
}

func TestSend_TrimsInput(t *testing.T) {
	backend := &fakeBackend{
		profile:   api.Profile{Email: "a@x.com"},
		chatReply: api.ChatReply{Response: "ok", Timestamp: "2024-01-01T00:00:00Z"},
	}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	_, err := ctrl.Send(context.Background(), "  hi there \n")
	require.NoError(t, err)
	require.Equal(t, "hi there", ctrl.Turns()[0].Content)
}

func TestSend_EmptyInputIsNoOp(t *testing.T) {
	backend := &fakeBackend{profile: api.Profile{Email: "a@x.com"}}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := ctrl.Send(context.Background(), input)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
	require.Empty(t, ctrl.Turns())
	require.Equal(t, 0, backend.chatCalls)
}

func TestSend_FailureAppendsErrorTurn(t *testing.T) {
	backend := &fakeBackend{
		profile: api.Profile{Email: "a@x.com"},
		chatErr: &api.StatusError{Code: 500, Body: "Chat failed"},
	}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	reply, err := ctrl.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, RoleError, reply.Role)
	require.Equal(t, ErrorTurnText, reply.Content)

	turns := ctrl.Turns()
	require.Len(t, turns, 2)
	require.Equal(t, RoleUser, turns[0].Role)
	require.Equal(t, RoleError, turns[1].Role)

	// the user may retry; each accepted send appends exactly two turns
	_, err = ctrl.Send(context.Background(), "hi again")
	require.NoError(t, err)
	require.Len(t, ctrl.Turns(), 4)
}

func TestSend_ReentrantCallIsNoOp(t *testing.T) {
	backend := &fakeBackend{
		profile:     api.Profile{Email: "a@x.com"},
		chatReply:   api.ChatReply{Response: "done", Timestamp: "2024-01-01T00:00:00Z"},
		chatGate:    make(chan struct{}),
		chatStarted: make(chan struct{}),
	}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Send(context.Background(), "first")
		done <- err
	}()
	<-backend.chatStarted

	require.True(t, ctrl.Sending())
	_, err := ctrl.Send(context.Background(), "second")
	require.ErrorIs(t, err, ErrSendInFlight)
	require.Len(t, ctrl.Turns(), 1)

	close(backend.chatGate)
	require.NoError(t, <-done)
	require.Len(t, ctrl.Turns(), 2)
	require.Equal(t, 1, backend.chatCalls)
	require.False(t, ctrl.Sending())
}

func TestSend_SettlingAfterLogoutIsDiscarded(t *testing.T) {
	backend := &fakeBackend{
		profile:     api.Profile{Email: "a@x.com"},
		chatReply:   api.ChatReply{Response: "late", Timestamp: "2024-01-01T00:00:00Z"},
		chatGate:    make(chan struct{}),
		chatStarted: make(chan struct{}),
	}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Send(context.Background(), "hi")
		done <- err
	}()
	<-backend.chatStarted

	require.NoError(t, ctrl.Logout())
	close(backend.chatGate)
	require.ErrorIs(t, <-done, ErrSessionEnded)

	// the torn-down session never sees the late reply
	require.Empty(t, ctrl.Turns())
}

func TestSend_RequiresAuthentication(t *testing.T) {
	backend := &fakeBackend{}
	ctrl, _ := newTestController(t, backend)

	_, err := ctrl.Send(context.Background(), "hi")
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Equal(t, 0, backend.chatCalls)
}

func TestSend_UnparseableServerTimestampFallsBack(t *testing.T) {
	backend := &fakeBackend{
		profile:   api.Profile{Email: "a@x.com"},
		chatReply: api.ChatReply{Response: "ok", Timestamp: "not-a-time"},
	}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	before := time.Now()
	reply, err := ctrl.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.False(t, reply.Timestamp.Before(before))
}

func TestHistory_MapsRecordsToTurns(t *testing.T) {
	backend := &fakeBackend{
		profile: api.Profile{Email: "a@x.com"},
		history: []api.ChatRecord{
			{UserMessage: "q1", AssistantResponse: "a1", Timestamp: "2024-01-01T00:00:00Z"},
			{UserMessage: "q2", AssistantResponse: "a2", Timestamp: "2024-01-02T00:00:00Z"},
		},
	}
	ctrl, store := newTestController(t, backend)
	authenticate(t, ctrl, store)

	turns, err := ctrl.History(context.Background())
	require.NoError(t, err)
	require.Len(t, turns, 4)
	require.Equal(t, RoleUser, turns[0].Role)
	require.Equal(t, "q1", turns[0].Content)
	require.Equal(t, RoleAssistant, turns[1].Role)
	require.Equal(t, "a1", turns[1].Content)
}
