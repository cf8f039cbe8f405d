package client

import (
	"context"

	"github.com/google/uuid"
)

// ResolveSession establishes the session for this run. A non-empty
// oneTimeToken (delivered by the login redirect) is persisted first, the
// terminal analog of scrubbing the token out of the browser URL. The
// persisted token is then validated with a profile fetch; any rejection
// discards it and leaves the controller unauthenticated. No retries: a
// failed validation is terminal for this resolution.
func (c *Controller) ResolveSession(ctx context.Context, oneTimeToken string) (SessionState, error) {
	if oneTimeToken != "" {
		if err := c.tokens.Save(oneTimeToken); err != nil {
			return StateUnauthenticated, err
		}
	}

	token, err := c.token()
	if err != nil {
		return StateUnauthenticated, err
	}
	if token == "" {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.profile = nil
		epoch := c.epoch
		c.mu.Unlock()
		c.logger.Debug().Str("epoch", epoch).Msg("no stored token, session unauthenticated")
		return StateUnauthenticated, nil
	}

	c.mu.Lock()
	c.state = StateValidating
	epoch := c.epoch
	c.mu.Unlock()

	profile, err := c.backend.Profile(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.logger.Debug().Msg("session torn down during validation, discarding result")
		return c.state, nil
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("profile fetch rejected, clearing stored token")
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.logger.Error().Err(clearErr).Msg("failed to clear rejected token")
		}
		c.state = StateUnauthenticated
		c.profile = nil
		return StateUnauthenticated, nil
	}

	c.state = StateAuthenticated
	c.profile = &profile
	c.logger.Info().Str("email", profile.Email).Bool("is_admin", profile.IsAdmin).Msg("session authenticated")
	return StateAuthenticated, nil
}

// CompleteLogin is the pure second phase of the login protocol: persist
// the callback-supplied token and validate it.
func (c *Controller) CompleteLogin(ctx context.Context, token string) (SessionState, error) {
	return c.ResolveSession(ctx, token)
}

// LoginURL returns the provider-login entry point for the first phase of
// the login protocol.
func (c *Controller) LoginURL() string {
	return c.backend.LoginURL()
}

// Logout clears the persisted token and resets all in-memory state. It is
// synchronous, performs no network call, and is idempotent. Bumping the
// epoch makes any still-in-flight call discard its result on settle.
func (c *Controller) Logout() error {
	err := c.tokens.Clear()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateUnauthenticated
	c.profile = nil
	c.turns = nil
	c.sending = false
	c.stats = nil
	c.roster = nil
	c.mutating = false
	c.epoch = uuid.NewString()
	c.logger.Info().Msg("logged out")
	return err
}
