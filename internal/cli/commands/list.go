package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mephub/mephub/internal/cli/cookies"
	"github.com/mephub/mephub/internal/client"
)

// listingLister is the slice of the API client the list command needs
type listingLister interface {
	ListListings(ctx context.Context, category string, admin bool) ([]client.Listing, error)
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var serverAlias string
	var admin bool

	cmd := &cobra.Command{
		Use:     "ls <category>",
		Aliases: []string{"list"},
		Short:   "List directory entries in a category",
		Args:    cobra.ExactArgs(1),
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

			if admin {
				if err := ensureAccess(cmd.Context(), api, true, "/admin/"+string(category)); err != nil {
					return err
				}
			}

			return runList(cmd.Context(), api, os.Stdout, string(category), admin)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")
	cmd.Flags().BoolVar(&admin, "admin", false, "Include unpublished entries (admin only)")

	return cmd
}

func runList(ctx context.Context, api listingLister, out io.Writer, category string, admin bool) error {
	listings, err := api.ListListings(ctx, category, admin)
	if err != nil {
		return err
	}

	if len(listings) == 0 {
		fmt.Fprintf(out, "No %s found.\n", category)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSLUG\tCITY\tPUBLISHED")
	fmt.Fprintln(w, "────\t────\t────\t─────────")

	for _, listing := range listings {
		published := "yes"
		if !listing.Published {
			published = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			listing.Name,
			listing.Slug,
			listing.City,
			published,
		)
	}

	w.Flush()

	return nil
}
