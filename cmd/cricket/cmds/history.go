package cmds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/cricket/pkg/client"
)

// NewHistoryCommand returns the history command, printing the server-side
// chat history for the signed-in account.
func NewHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print recent chat history stored by the backend",
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
				return fmt.Errorf("not logged in, run `cricket login` first")
			}

			turns, err := ctrl.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(turns) == 0 {
				fmt.Println("No chat history.")
				return nil
			}
			for _, turn := range turns {
				label := "you"
				if turn.Role == client.RoleAssistant {
					label = "assistant"
				}
				if !turn.Timestamp.IsZero() {
					fmt.Printf("[%s] %s: %s\n", turn.Timestamp.Format("2006-01-02 15:04"), label, turn.Content)
				} else {
					fmt.Printf("%s: %s\n", label, turn.Content)
				}
			}
			return nil
		},
	}
}
