package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/notes/internal/client"
	"github.com/sakif/notes/internal/ui"
)

var (
	serverFlag string

	cfgPath   string
	cfg       *client.Config
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Personal notes from the terminal",
	Long: `notes talks to a notes server. Run "notes login" once to store a
session, then list, add, edit and remove notes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfgPath, err = client.ConfigPath()
		if err != nil {
			return err
		}
		cfg, err = client.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		if serverFlag != "" {
			cfg.ServerURL = serverFlag
		}
		apiClient = client.New(cfg.ServerURL, cfg.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "server URL (overrides config)")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(logoutCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(explain(err)))
		return err
	}
	return nil
}

// explain turns a 401 into a hint to log in.
func explain(err error) string {
	if client.IsUnauthenticated(err) {
		return "not logged in (run: notes login)"
	}
	return err.Error()
}
