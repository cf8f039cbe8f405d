package client

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotAdmin rejects admin operations from unprivileged sessions.
	ErrNotAdmin = errors.New("admin privilege required")
	// ErrEmptyKey rejects configuring an empty provider key.
	ErrEmptyKey = errors.New("provider key is empty")
	// ErrEmptyEmail rejects admin mutations with no target email.
	ErrEmptyEmail = errors.New("email is empty")
	// ErrMutationInFlight rejects overlapping admin mutations.
	ErrMutationInFlight = errors.New("an admin mutation is already in flight")
	// ErrPrimaryAdmin refuses to revoke the designated primary admin.
	ErrPrimaryAdmin = errors.New("cannot revoke the primary admin")
)

func (c *Controller) adminToken() (string, string, error) {
	c.mu.Lock()
	privileged := c.state == StateAuthenticated && c.profile != nil && c.profile.IsAdmin
	epoch := c.epoch
	c.mu.Unlock()
	if !privileged {
		return "", "", ErrNotAdmin
	}
	token, err := c.token()
	if err != nil {
		return "", "", err
	}
	return token, epoch, nil
}

// RefreshStats replaces the admin statistics wholesale. On failure the
// prior stats are kept; the error is logged and returned for diagnostics
// but is not a blocking outcome.
func (c *Controller) RefreshStats(ctx context.Context) error {
	token, epoch, err := c.adminToken()
	if err != nil {
		return err
	}
	stats, err := c.backend.AdminStats(ctx, token)
	if err != nil {
		c.logger.Warn().Err(err).Msg("admin stats fetch failed, keeping stale data")
		return errors.Wrap(err, "fetch admin stats")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return ErrSessionEnded
	}
	c.stats = &stats
	return nil
}

// RefreshRoster replaces the user roster wholesale. Failure keeps the
// prior roster, mirroring RefreshStats.
func (c *Controller) RefreshRoster(ctx context.Context) error {
	token, epoch, err := c.adminToken()
	if err != nil {
		return err
	}
	roster, err := c.backend.AdminUsers(ctx, token)
	if err != nil {
		c.logger.Warn().Err(err).Msg("admin roster fetch failed, keeping stale data")
		return errors.Wrap(err, "fetch admin roster")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return ErrSessionEnded
	}
	c.roster = roster
	return nil
}

// RefreshAdminPanel fetches stats and roster concurrently, as done on
// every admin-panel entry.
func (c *Controller) RefreshAdminPanel(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.RefreshStats(gctx) })
	g.Go(func() error { return c.RefreshRoster(gctx) })
	return g.Wait()
}

// beginMutation acquires the single admin-mutation slot.
func (c *Controller) beginMutation() (string, error) {
	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return "", ErrMutationInFlight
	}
	c.mutating = true
	epoch := c.epoch
	c.mu.Unlock()
	return epoch, nil
}

func (c *Controller) endMutation(epoch string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.mutating = false
	return true
}

// ConfigureProviderKey sets the provider API key, scoped to targetEmail
// when non-empty and global otherwise. The outcome is synchronous and
// surfaced to the operator; there is no retry.
func (c *Controller) ConfigureProviderKey(ctx context.Context, key, targetEmail string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	token, _, err := c.adminToken()
	if err != nil {
		return err
	}
	epoch, err := c.beginMutation()
	if err != nil {
		return err
	}
	err = c.backend.ConfigureKey(ctx, token, key, strings.TrimSpace(targetEmail))
	if !c.endMutation(epoch) {
		return ErrSessionEnded
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("configure provider key failed")
		return errors.Wrap(err, "configure provider key")
	}
	c.logger.Info().Bool("scoped", targetEmail != "").Msg("provider key configured")
	return nil
}

// GrantAdmin grants admin privilege to the account with the given email
// and re-fetches the roster on success.
func (c *Controller) GrantAdmin(ctx context.Context, email string) error {
	return c.manageAdmin(ctx, email, "add")
}

// RevokeAdmin removes admin privilege from the given account. The primary
// admin (AdminStats.AdminEmail) is refused before any network call; the
// operator confirmation step is the caller's responsibility and must
// happen before invoking this method.
func (c *Controller) RevokeAdmin(ctx context.Context, email string) error {
	if c.IsPrimaryAdmin(email) {
		return ErrPrimaryAdmin
	}
	return c.manageAdmin(ctx, email, "remove")
}

// IsPrimaryAdmin reports whether email matches the designated primary
// admin from the current statistics.
func (c *Controller) IsPrimaryAdmin(email string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats != nil && c.stats.AdminEmail != "" &&
		strings.EqualFold(strings.TrimSpace(email), c.stats.AdminEmail)
}

func (c *Controller) manageAdmin(ctx context.Context, email, action string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	token, _, err := c.adminToken()
	if err != nil {
		return err
	}
	epoch, err := c.beginMutation()
	if err != nil {
		return err
	}
	err = c.backend.ManageAdmin(ctx, token, email, action)
	if !c.endMutation(epoch) {
		return ErrSessionEnded
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("action", action).Str("email", email).Msg("admin mutation failed")
		return errors.Wrapf(err, "%s admin %s", action, email)
	}
	c.logger.Info().Str("action", action).Str("email", email).Msg("admin mutation applied")
	if err := c.RefreshRoster(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("roster refresh after mutation failed")
	}
	return nil
}
