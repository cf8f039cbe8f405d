package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/cricket/cmd/cricket/cmds"
	"github.com/go-go-golems/cricket/cmd/cricket/cmds/admin"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cricket",
	Short: "cricket is a terminal client for the chat web app",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// bare invocation drops straight into the chat TUI
		return cmds.RunChat(cmd.Context())
	},
}

func initLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(cmds.NewChatCommand())
	rootCmd.AddCommand(cmds.NewLoginCommand())
	rootCmd.AddCommand(cmds.NewLogoutCommand())
	rootCmd.AddCommand(cmds.NewWhoamiCommand())
	rootCmd.AddCommand(cmds.NewHistoryCommand())
	rootCmd.AddCommand(admin.NewAdminCommand())

	err := rootCmd.Execute()
	cobra.CheckErr(err)
}
