// internal/cli/whoami.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity carried by the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(rootOpts)
			if err != nil {
				return err
			}

			if eng.session.UserID() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No identity claims in token")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user: %s (%s)\n", eng.session.Username(), eng.session.UserID())
			return nil
		},
	}
}
