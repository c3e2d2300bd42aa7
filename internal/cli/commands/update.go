package commands

import (
	"github.com/spf13/cobra"

	"github.com/mephub/mephub/internal/cli/update"
)

// NewUpdateCmd creates the self-update command
func NewUpdateCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the CLI to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return update.SelfUpdate(version)
		},
	}

	return cmd
}
