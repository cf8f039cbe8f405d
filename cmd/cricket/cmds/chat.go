package cmds

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/cricket/pkg/ui"
)

// NewChatCommand returns the interactive chat TUI command.
func NewChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunChat(cmd.Context())
		},
	}
}

// RunChat starts the bubbletea program. It is also the root command's
// default action.
func RunChat(ctx context.Context) error {
	ctrl, cfg, err := BuildController()
	if err != nil {
		return err
	}

	// the TUI owns the terminal; keep zerolog off the screen unless a
	// log file is configured
	if path := os.Getenv("CRICKET_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		defer func() { _ = f.Close() }()
		log.Logger = log.Output(f)
	} else {
		log.Logger = log.Output(io.Discard)
	}

	p := tea.NewProgram(ui.New(ctrl, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return errors.Wrap(err, "run chat ui")
}
