package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mephub/mephub/internal/cli/config"
	"github.com/mephub/mephub/internal/cli/cookies"
	"github.com/mephub/mephub/internal/client"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a MEP Hub server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := getSelectedServer(serverAlias)
			if err != nil {
				return err
			}

			if email == "" {
				email = os.Getenv("MEPHUB_EMAIL")
			}
			if password == "" {
				password = os.Getenv("MEPHUB_PASSWORD")
			}

			if email == "" {
				return fmt.Errorf("email is required (use --email flag or MEPHUB_EMAIL env var)")
			}

			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			return runLogin(cmd.Context(), server, cookies.Default, os.Stdout, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MEPHUB_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MEPHUB_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")

	return cmd
}

// promptPassword reads a password from the terminal without echo
func promptPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or MEPHUB_PASSWORD env var)")
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	return string(bytePassword), nil
}

func runLogin(ctx context.Context, server *config.Server, store cookies.Store, out io.Writer, email, password string) error {
	// Start from an empty jar; the login response fills it
	jar, err := cookies.NewJar(server.URL, "")
	if err != nil {
		return err
	}
	api := client.NewWithJar(server.URL, jar)

	fmt.Fprintf(out, "Logging in to %s (%s)...\n", server.Alias, server.URL)

	user, err := api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	value, err := cookies.SessionValue(jar, server.URL)
	if err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("server did not set a session cookie")
	}

	if err := store.Save(server.URL, value); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s (%s)\n", user.Username, user.Email)
	if user.IsAdmin() {
		fmt.Fprintln(out, "  Role: Admin")
	}

	return nil
}
