// Package cmd provides the tracontent management commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tracontent/pkg/config"
)

// NewRootCmd creates the root command for tracontent.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracontent",
		Short: "Multisite CMS for event and convention websites",
		Long: `tracontent serves any number of event websites from one installation.
Sites are keyed by the host:port used to reach them; content is stored
in SQLite and editors log in through Kompassi (OAuth2).

Typical first run:

  tracontent setup
  tracontent setup_example_content localhost:8000
  tracontent runserver localhost:8000`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			config.Init()

			level := slog.LevelInfo
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose || config.Debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db", "", "Database file path (overrides DATABASE_PATH)")

	// Add subcommands
	cmd.AddCommand(NewSetupCmd())
	cmd.AddCommand(NewSetupExampleContentCmd())
	cmd.AddCommand(NewRunserverCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// databasePath resolves the database file for a command invocation.
func databasePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	return config.DatabasePath
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
