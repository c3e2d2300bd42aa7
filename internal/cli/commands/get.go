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

// listingGetter is the slice of the API client the get command needs
type listingGetter interface {
	GetListing(ctx context.Context, category, idOrSlug string) (*client.Listing, error)
}

// NewGetCmd creates the get command
func NewGetCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "get <category> <id-or-slug>",
		Short: "Show one directory entry",
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

			return runGet(cmd.Context(), api, os.Stdout, string(category), args[1])
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")

	return cmd
}

func runGet(ctx context.Context, api listingGetter, out io.Writer, category, idOrSlug string) error {
	listing, err := api.GetListing(ctx, category, idOrSlug)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Name:      %s\n", listing.Name)
	fmt.Fprintf(out, "Slug:      %s\n", listing.Slug)
	if listing.City != "" {
		fmt.Fprintf(out, "City:      %s\n", listing.City)
	}
	if listing.Email != "" {
		fmt.Fprintf(out, "Email:     %s\n", listing.Email)
	}
	if listing.Phone != "" {
		fmt.Fprintf(out, "Phone:     %s\n", listing.Phone)
	}
	if listing.Website != "" {
		fmt.Fprintf(out, "Website:   %s\n", listing.Website)
	}
	if listing.Description != "" {
		fmt.Fprintf(out, "About:     %s\n", listing.Description)
	}
	fmt.Fprintf(out, "Published: %v\n", listing.Published)

	return nil
}
