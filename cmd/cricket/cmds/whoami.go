package cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/cricket/pkg/client"
)

// NewWhoamiCommand returns the whoami command.
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := BuildController()
			if err != nil {
				return err
			}
			state, err := ctrl.ResolveSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			if state != client.StateAuthenticated {
				fmt.Println("Not logged in. Run `cricket login` first.")
				return nil
			}
			profile := ctrl.Profile()
			fmt.Printf("%s <%s>\n", profile.Name, profile.Email)
			if profile.IsAdmin {
				fmt.Println("admin: yes")
			}
			return nil
		},
	}
}
