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

// contactSender is the slice of the API client the contact command needs
type contactSender interface {
	SubmitContact(ctx context.Context, req client.ContactRequest) error
}

// NewContactCmd creates the contact command
func NewContactCmd() *cobra.Command {
	var serverAlias, name, email, subject, body string

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the site contact form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || subject == "" || body == "" {
				return fmt.Errorf("--name, --email, --subject and --body are all required")
			}

			server, err := getSelectedServer(serverAlias)
			if err != nil {
				return err
			}

			api, err := newSessionClient(server, cookies.Default)
			if err != nil {
				return err
			}

			return runContact(cmd.Context(), api, os.Stdout, client.ContactRequest{
				Name:    name,
				Email:   email,
				Subject: subject,
				Body:    body,
			})
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from mephub.yaml")
	cmd.Flags().StringVar(&name, "name", "", "Your name")
	cmd.Flags().StringVar(&email, "email", "", "Your email address")
	cmd.Flags().StringVar(&subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&body, "body", "", "Message body")

	return cmd
}

func runContact(ctx context.Context, api contactSender, out io.Writer, req client.ContactRequest) error {
	if err := api.SubmitContact(ctx, req); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	fmt.Fprintln(out, "✓ Message sent")
	return nil
}
