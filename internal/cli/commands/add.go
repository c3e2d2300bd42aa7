package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mephub/mephub/internal/cli/cookies"
	"github.com/mephub/mephub/internal/client"
)

// listingCreator is the slice of the API client the add command needs
type listingCreator interface {
	CreateListing(ctx context.Context, category string, fields map[string]interface{}) (*client.Listing, error)
}

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	var serverAlias, city, description, email, phone, website string
	var published bool

	cmd := &cobra.Command{
		Use:   "add <category> <name>",
		Short: "Create a directory entry (admin)",
		Args:  cobra.ExactArgs(2),
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

			fields := map[string]interface{}{
				"name":      args[1],
				"published": published,
			}
			if city != "" {
				fields["city"] = city
			}
			if description != "" {
				fields["description"] = description
			}
			if email != "" {
				fields["email"] = email
			}
			if phone != "" {
				fields["phone"] = phone
			}
			if website != "" {
				fields["website"] = website
			}

			return runAdd(cmd.Context(), api, os.Stdout, string(category), fields)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&website, "website", "", "Website URL")
	cmd.Flags().BoolVar(&published, "published", false, "Publish immediately")

	return cmd
}

func runAdd(ctx context.Context, api listingCreator, out io.Writer, category string, fields map[string]interface{}) error {
	listing, err := api.CreateListing(ctx, category, fields)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	fmt.Fprintf(out, "✓ Created %s entry '%s' (slug: %s)\n", category, listing.Name, listing.Slug)
	if !listing.Published {
		fmt.Fprintln(out, "  Entry is unpublished; publish it from the admin area when ready")
	}
	return nil
}
