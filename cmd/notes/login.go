package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/notes/internal/client"
	"github.com/sakif/notes/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with Google",
	Long: `Print the login URL. Open it in a browser, sign in with Google, then
copy the value of the notes_session cookie and paste it here.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")

		if token == "" {
			fmt.Printf("Open this URL in your browser:\n\n  %s\n\n", apiClient.LoginURL())
			fmt.Print("Paste the notes_session cookie value: ")

			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading token: %w", err)
			}
			token = strings.TrimSpace(line)
		}
		if token == "" {
			return fmt.Errorf("no token given")
		}

		// Check the token before saving it.
		user, err := client.New(cfg.ServerURL, token).CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("verifying session: %w", err)
		}

		cfg.Token = token
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}

		fmt.Println(ui.Success("Logged in as " + ui.Plain(user.Name)))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := apiClient.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(ui.FormatUser(user.Name, user.Email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logging out: %w", err)
		}

		cfg.Token = ""
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}

		fmt.Println(ui.Success("Logged out"))
		return nil
	},
}

func init() {
	loginCmd.Flags().String("token", "", "session token (skips the prompt)")
}
