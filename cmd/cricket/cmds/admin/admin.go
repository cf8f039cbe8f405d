// Package admin holds the headless admin-console commands.
package admin

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/cricket/cmd/cricket/cmds"
	"github.com/go-go-golems/cricket/pkg/client"
)

// NewAdminCommand groups the admin-console operations.
func NewAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer users and the provider API key",
	}
	cmd.AddCommand(newStatsCommand())
	cmd.AddCommand(newUsersCommand())
	cmd.AddCommand(newConfigureKeyCommand())
	cmd.AddCommand(newGrantCommand())
	cmd.AddCommand(newRevokeCommand())
	return cmd
}

// adminController resolves the session and ensures it is privileged.
func adminController(ctx context.Context) (*client.Controller, error) {
	ctrl, _, err := cmds.BuildController()
	if err != nil {
		return nil, err
	}
	state, err := ctrl.ResolveSession(ctx, "")
	if err != nil {
		return nil, err
	}
	if state != client.StateAuthenticated {
		return nil, errors.New("not logged in, run `cricket login` first")
	}
	if !ctrl.IsAdmin() {
		return nil, errors.New("this account does not have admin access")
	}
	return ctrl, nil
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate user and chat statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := adminController(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctrl.RefreshStats(cmd.Context()); err != nil {
				return err
			}
			stats := ctrl.Stats()
			fmt.Printf("total users:   %d\n", stats.TotalUsers)
			fmt.Printf("total chats:   %d\n", stats.TotalChats)
			fmt.Printf("primary admin: %s\n", stats.AdminEmail)
			return nil
		},
	}
}

func newUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the user roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := adminController(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctrl.RefreshRoster(cmd.Context()); err != nil {
				return err
			}
			roster := ctrl.Roster()
			if len(roster) == 0 {
				fmt.Println("No users found.")
				return nil
			}
			for _, u := range roster {
				flags := ""
				if u.IsAdmin {
					flags = " [admin]"
				}
				last := ""
				if t, ok := u.LastLoginTime(); ok {
					last = "  last login " + t.Format("2006-01-02 15:04")
				}
				fmt.Printf("%s <%s>%s%s\n", u.Name, u.Email, flags, last)
			}
			return nil
		},
	}
}

func newConfigureKeyCommand() *cobra.Command {
	var key, email string

	cmd := &cobra.Command{
		Use:   "configure-key",
		Short: "Set the provider API key, globally or for one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := adminController(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctrl.ConfigureProviderKey(cmd.Context(), key, email); err != nil {
				return err
			}
			if email != "" {
				fmt.Printf("Provider key configured for %s.\n", email)
			} else {
				fmt.Println("Default provider key configured.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Provider API key (required)")
	cmd.Flags().StringVar(&email, "email", "", "Scope the key to this user (empty sets the default key)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newGrantCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <email>",
		Short: "Grant admin access to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := adminController(cmd.Context())
			if err != nil {
				return err
			}
			if err := ctrl.GrantAdmin(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Admin access granted to %s.\n", args[0])
			return nil
		},
	}
}

func newRevokeCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "revoke <email>",
		Short: "Revoke admin access from a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := adminController(cmd.Context())
			if err != nil {
				return err
			}
			// the primary-admin guard needs the current stats
			if err := ctrl.RefreshStats(cmd.Context()); err != nil {
				return err
			}
			email := strings.TrimSpace(args[0])
			if ctrl.IsPrimaryAdmin(email) {
				return client.ErrPrimaryAdmin
			}
			if !yes && !confirm(fmt.Sprintf("Remove admin access from %s?", email)) {
				fmt.Println("Cancelled.")
				return nil
			}
			if err := ctrl.RevokeAdmin(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Printf("Admin access removed from %s.\n", email)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
