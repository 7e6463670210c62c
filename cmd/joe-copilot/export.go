package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-copilot/internal/catalogfile"
	"github.com/joestump/joe-copilot/internal/store"
)

func newExportCmd() *cobra.Command {
	var orgName, orgID, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an organization's catalog to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := catalogfile.ParseFormat(format)
			if err != nil {
				return err
			}

			_, database, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			id, err := resolveOrg(cmd, store.NewOrgStore(database), orgID, orgName)
			if err != nil {
				return err
			}
			c, err := store.NewCatalogStore(database).Export(cmd.Context(), id)
			if err != nil {
				return err
			}
			return catalogfile.Encode(cmd.OutOrStdout(), f, c)
		},
	}
	cmd.Flags().StringVar(&orgName, "org", "", "organization name")
	cmd.Flags().StringVar(&orgID, "org-id", "", "organization ID")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: json or yaml")
	cmd.MarkFlagsOneRequired("org", "org-id")
	cmd.MarkFlagsMutuallyExclusive("org", "org-id")
	return cmd
}

// resolveOrg returns id when given, otherwise the ID of the organization named name.
func resolveOrg(cmd *cobra.Command, orgs *store.OrgStore, id, name string) (string, error) {
	if id != "" {
		return id, nil
	}
	org, err := orgs.GetByName(cmd.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		return "", errors.New("no organization named " + name)
	}
	if err != nil {
		return "", err
	}
	return org.ID, nil
}
