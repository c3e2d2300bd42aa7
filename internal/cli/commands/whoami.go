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

// sessionViewer is the slice of the API client whoami needs
type sessionViewer interface {
	CheckAuth(ctx context.Context) (*client.CheckAuthResult, error)
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := getSelectedServer(serverAlias)
			if err != nil {
				return err
			}
			api, err := newSessionClient(server, cookies.Default)
			if err != nil {
				return err
			}
			return runWhoami(cmd.Context(), api, server, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")

	return cmd
}

func runWhoami(ctx context.Context, api sessionViewer, server *config.Server, out io.Writer) error {
	result, err := api.CheckAuth(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", server.URL, err)
	}

	if !result.IsAuthenticated || result.User == nil {
		fmt.Fprintf(out, "Not logged in to %s (%s)\n", server.Alias, server.URL)
		return nil
	}

	fmt.Fprintf(out, "Logged in to %s (%s)\n", server.Alias, server.URL)
	fmt.Fprintf(out, "  User: %s (%s)\n", result.User.Username, result.User.Email)
	fmt.Fprintf(out, "  Role: %s\n", result.User.UserType)
	return nil
}
