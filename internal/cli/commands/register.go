package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mephub/mephub/internal/cli/config"
	"github.com/mephub/mephub/internal/cli/cookies"
	"github.com/mephub/mephub/internal/client"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var username, email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on a MEP Hub server",
		Long: `Create an account on a MEP Hub server.

The first account registered on a fresh server becomes the administrator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := getSelectedServer(serverAlias)
			if err != nil {
				return err
			}

			if username == "" || email == "" {
				return fmt.Errorf("--username and --email are required")
			}

			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			return runRegister(cmd.Context(), server, cookies.Default, os.Stdout, username, email, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the new account")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")

	return cmd
}

func runRegister(ctx context.Context, server *config.Server, store cookies.Store, out io.Writer, username, email, password string) error {
	jar, err := cookies.NewJar(server.URL, "")
	if err != nil {
		return err
	}
	api := client.NewWithJar(server.URL, jar)

	user, err := api.Register(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	// Registration logs the new account in; keep its cookie like login does
	value, err := cookies.SessionValue(jar, server.URL)
	if err != nil {
		return err
	}
	if value != "" {
		if err := store.Save(server.URL, value); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}

	fmt.Fprintln(out, "✓ Account created!")
	fmt.Fprintf(out, "  User: %s (%s)\n", user.Username, user.Email)
	if user.IsAdmin() {
		fmt.Fprintln(out, "  Role: Admin (first account on this server)")
	}

	return nil
}
