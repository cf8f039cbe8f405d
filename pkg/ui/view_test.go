package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/cricket/pkg/client"
)

func TestRenderTranscript_EmptyConversation(t *testing.T) {
	out := renderTranscript(nil, nil)
	require.Contains(t, out, "Start a conversation")
}

func TestRenderTranscript_TurnOrderPreserved(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	turns := []client.Turn{
		{Role: client.RoleUser, Content: "hi", Timestamp: now},
		{Role: client.RoleAssistant, Content: "hello!", Timestamp: now},
		{Role: client.RoleUser, Content: "again", Timestamp: now},
		{Role: client.RoleError, Content: client.ErrorTurnText, Timestamp: now},
	}

	out := renderTranscript(turns, nil)
	require.Less(t, strings.Index(out, "hi"), strings.Index(out, "hello!"))
	require.Less(t, strings.Index(out, "hello!"), strings.Index(out, "again"))
	require.Contains(t, out, client.ErrorTurnText)
}

func TestLastAssistantTurn(t *testing.T) {
	_, ok := lastAssistantTurn(nil)
	require.False(t, ok)

	turns := []client.Turn{
		{Role: client.RoleUser, Content: "q"},
		{Role: client.RoleAssistant, Content: "first"},
		{Role: client.RoleAssistant, Content: "second"},
		{Role: client.RoleError, Content: "boom"},
	}
	content, ok := lastAssistantTurn(turns)
	require.True(t, ok)
	require.Equal(t, "second", content)
}
