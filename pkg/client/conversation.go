package client

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/go-go-golems/cricket/pkg/api"
)

// ErrorTurnText is the fixed user-facing content of an error turn.
const ErrorTurnText = "Sorry, something went wrong. Please try again."

var (
	// ErrEmptyMessage rejects sends whose text trims to nothing.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSendInFlight rejects a send while another one is pending.
	ErrSendInFlight = errors.New("a send is already in flight")
	// ErrNotAuthenticated rejects operations that need a valid session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionEnded reports that a call settled after logout and its
	// result was discarded.
	ErrSessionEnded = errors.New("session ended before the call settled")
)

// Send submits one user message. The user turn is appended optimistically
// before the network call; exactly one follow-up turn (assistant or error)
// is appended when the call settles, so the user turn always precedes its
// reply. Empty input and re-entrant sends are local no-ops signalled by
// sentinel errors. A send that settles after logout is discarded.
func (c *Controller) Send(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return Turn{}, ErrNotAuthenticated
	}
	if c.sending {
		c.mu.Unlock()
		return Turn{}, ErrSendInFlight
	}
	c.sending = true
	epoch := c.epoch
	c.turns = append(c.turns, Turn{Role: RoleUser, Content: text, Timestamp: time.Now()})
	c.mu.Unlock()

	token, tokenErr := c.token()
	var reply Turn
	if tokenErr != nil {
		c.logger.Error().Err(tokenErr).Msg("failed to read token for send")
		reply = Turn{Role: RoleError, Content: ErrorTurnText, Timestamp: time.Now()}
	} else {
		resp, err := c.backend.Chat(ctx, token, text)
		if err != nil {
			c.logger.Warn().Err(err).Msg("chat send failed")
			reply = Turn{Role: RoleError, Content: ErrorTurnText, Timestamp: time.Now()}
		} else {
			ts, ok := api.ParseInstant(resp.Timestamp)
			if !ok {
				ts = time.Now()
			}
			reply = Turn{Role: RoleAssistant, Content: resp.Response, Timestamp: ts}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.logger.Debug().Msg("send settled after logout, discarding result")
		return Turn{}, ErrSessionEnded
	}
	c.sending = false
	c.turns = append(c.turns, reply)
	return reply, nil
}

// History fetches the server-side chat history for the current session.
func (c *Controller) History(ctx context.Context) ([]Turn, error) {
	c.mu.Lock()
	if c.state != StateAuthenticated {
		c.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	c.mu.Unlock()

	token, err := c.token()
	if err != nil {
		return nil, err
	}
	records, err := c.backend.History(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "fetch chat history")
	}

	turns := make([]Turn, 0, len(records)*2)
	for _, rec := range records {
		ts, ok := api.ParseInstant(rec.Timestamp)
		if !ok {
			ts = time.Time{}
		}
		turns = append(turns,
			Turn{Role: RoleUser, Content: rec.UserMessage, Timestamp: ts},
			Turn{Role: RoleAssistant, Content: rec.AssistantResponse, Timestamp: ts},
		)
	}
	return turns, nil
}
