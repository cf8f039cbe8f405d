package cmds

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCommand returns the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored credential and end the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := BuildController()
			if err != nil {
				return err
			}
			if err := ctrl.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
