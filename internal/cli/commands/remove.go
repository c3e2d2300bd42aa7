package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mephub/mephub/internal/cli/cookies"
)

// listingRemover is the slice of the API client the remove command needs
type listingRemover interface {
	DeleteListing(ctx context.Context, category, id string) error
}

// NewRemoveCmd creates the remove command
func NewRemoveCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "rm <category> <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a directory entry (admin)",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategory(args[0])
			if err != nil {
				return err
			}

			server, err := getSelectedServer(serverAlias)
			if err != nil {
				return err
			}

			api, err := newSessionClient(server, cookies.Default)
			if err != nil {
				return err
			}

			if err := ensureAccess(cmd.Context(), api, true, "/admin/"+string(category)); err != nil {
				return err
			}

			return runRemove(cmd.Context(), api, os.Stdout, string(category), args[1])
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")

	return cmd
}

func runRemove(ctx context.Context, api listingRemover, out io.Writer, category, id string) error {
	if err := api.DeleteListing(ctx, category, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	fmt.Fprintf(out, "✓ Deleted %s entry %s\n", category, id)
	return nil
}
