package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-copilot/internal/catalogfile"
	"github.com/joestump/joe-copilot/internal/store"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create or replace an organization's catalog from a JSON or YAML file",
		Long: "Import reads a catalog document ({organization, pages}) and stores it. An existing\n" +
			"organization with the same name keeps its ID; its pages and actions are replaced.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalogfile.Load(args[0])
			if err != nil {
				return err
			}

			_, database, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			org, err := store.NewCatalogStore(database).Import(cmd.Context(), *c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %q (%d pages) as %s\n", org.Name, len(c.Pages), org.ID)
			return nil
		},
	}
}
