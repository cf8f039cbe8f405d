package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const callbackPage = `<!doctype html>
<html><body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h2>Signed in</h2><p>You can close this tab and return to the terminal.</p>
</body></html>`

// ListenForToken runs a short-lived localhost HTTP listener that captures
// the one-time token the backend appends to its post-login redirect. It
// returns when a token arrives or ctx is done.
func ListenForToken(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen on %s", addr)
	}

	tokenCh := make(chan string, 1)
	handler := func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(callbackPage))
		select {
		case tokenCh <- token:
		default:
		}
	}

	r := chi.NewRouter()
	r.Get("/", handler)
	r.Get("/auth/callback", handler)

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}

	var token string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		select {
		case token = <-tokenCh:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		return "", errors.Wrap(err, "wait for login callback")
	}
	return token, nil
}

// BeginLogin runs the redirect flow end to end: open the provider-login
// URL (via the supplied opener, which may be nil when the operator
// navigates manually), wait for the callback token, then complete the
// login with a profile validation.
func (c *Controller) BeginLogin(ctx context.Context, callbackAddr string, open func(url string) error) (SessionState, error) {
	url := c.backend.LoginURL()
	if open != nil {
		if err := open(url); err != nil {
			c.logger.Warn().Err(err).Str("url", url).Msg("could not open browser, navigate manually")
		}
	}
	token, err := ListenForToken(ctx, callbackAddr)
	if err != nil {
		return StateUnauthenticated, err
	}
	return c.CompleteLogin(ctx, token)
}
