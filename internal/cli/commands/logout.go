package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mephub/mephub/internal/cli/config"
	"github.com/mephub/mephub/internal/cli/cookies"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := getSelectedServer(serverAlias)
			if err != nil {
				return err
			}
			return runLogout(cmd.Context(), server, cookies.Default, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")

	return cmd
}

func runLogout(ctx context.Context, server *config.Server, store cookies.Store, out io.Writer) error {
	api, err := newSessionClient(server, store)
	if err != nil {
		return err
	}

	// Best effort: the server invalidates its session row, but the local
	// cookie gets dropped no matter what
	if err := api.Logout(ctx); err != nil {
		fmt.Fprintf(out, "Warning: server logout failed (%v), clearing local session anyway\n", err)
	}

	if err := store.Delete(server.URL); err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Logged out")
	return nil
}
