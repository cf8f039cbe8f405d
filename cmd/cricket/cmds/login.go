package cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/cricket/pkg/client"
)

// NewLoginCommand returns the login command. Without --token it runs the
// full redirect flow: open the provider-login URL and wait for the backend
// to deliver the one-time token to the local callback listener.
func NewLoginCommand() *cobra.Command {
	var token string
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in through the backend's Google login",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cfg, err := BuildController()
			if err != nil {
				return err
			}

			var state client.SessionState
			if token != "" {
				state, err = ctrl.CompleteLogin(cmd.Context(), token)
			} else {
				opener := client.OpenBrowser
				if noBrowser {
					opener = nil
				}
				fmt.Printf("Opening %s\n", ctrl.LoginURL())
				fmt.Printf("Waiting for the sign-in redirect on http://%s ...\n", cfg.CallbackAddr)
				state, err = ctrl.BeginLogin(cmd.Context(), cfg.CallbackAddr, opener)
			}
			if err != nil {
				return err
			}
			if state != client.StateAuthenticated {
				return fmt.Errorf("login failed: the backend rejected the token")
			}

			profile := ctrl.Profile()
			fmt.Printf("Signed in as %s <%s>\n", profile.Name, profile.Email)
			if profile.IsAdmin {
				fmt.Println("This account has admin access.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Complete login with a token pasted from the redirect URL")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser, just print the login URL")
	return cmd
}
