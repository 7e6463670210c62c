package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-copilot/internal/auth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a new API token",
		Long:  "Generate prints a random token. Add it to COPILOT_API_TOKENS (comma separated) to accept it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plaintext, _, err := auth.GenerateToken()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plaintext)
			return nil
		},
	})
	return cmd
}
