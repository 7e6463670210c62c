package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-copilot/internal/catalog"
)

// CatalogStore reads and writes an organization's whole catalog at once.
type CatalogStore struct {
	db *sqlx.DB
}

func NewCatalogStore(db *sqlx.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// LoadCatalog returns the organization's info and its pages, each with its
// actions, in catalog order.
func (s *CatalogStore) LoadCatalog(ctx context.Context, orgID string) (catalog.OrgInfo, []catalog.Page, error) {
	org, err := getOrg(ctx, s.db, `SELECT * FROM organizations WHERE id = ?`, orgID)
	if err != nil {
		return catalog.OrgInfo{}, nil, err
	}

	var pageRows []Page
	if err := s.db.SelectContext(ctx, &pageRows, s.db.Rebind(`
		SELECT * FROM pages WHERE org_id = ? ORDER BY sort_order ASC, name ASC
	`), orgID); err != nil {
		return catalog.OrgInfo{}, nil, err
	}

	var actionRows []actionRow
	if err := s.db.SelectContext(ctx, &actionRows, s.db.Rebind(`
		SELECT a.* FROM actions a
		INNER JOIN pages p ON p.id = a.page_id
		WHERE p.org_id = ?
		ORDER BY a.sort_order ASC, a.name ASC
	`), orgID); err != nil {
		return catalog.OrgInfo{}, nil, err
	}
	byPage := make(map[string][]catalog.Action, len(pageRows))
	for i := range actionRows {
		a, err := actionRows[i].catalogAction()
		if err != nil {
			return catalog.OrgInfo{}, nil, err
		}
		byPage[actionRows[i].PageID] = append(byPage[actionRows[i].PageID], a)
	}

	pages := make([]catalog.Page, 0, len(pageRows))
	for _, p := range pageRows {
		pages = append(pages, catalog.Page{
			Name:        p.Name,
			Description: p.Description,
			Actions:     byPage[p.ID],
		})
	}
	return org.Info(), pages, nil
}

// Export returns the organization's catalog as a single document.
func (s *CatalogStore) Export(ctx context.Context, orgID string) (*catalog.Catalog, error) {
	info, pages, err := s.LoadCatalog(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return &catalog.Catalog{Org: info, Pages: pages}, nil
}

// ReplaceCatalog swaps the organization's pages and actions for pages, in one
// transaction. Actions are normalized and validated as in ActionStore.Create.
func (s *CatalogStore) ReplaceCatalog(ctx context.Context, orgID string, pages []catalog.Page) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := requireRow(ctx, tx, `SELECT COUNT(*) FROM organizations WHERE id = ?`, orgID); err != nil {
		return err
	}
	if err := replacePages(ctx, tx, orgID, pages); err != nil {
		return err
	}
	return tx.Commit()
}

// Import creates the catalog's organization, or updates the one with the same
// name, and replaces its pages and actions.
func (s *CatalogStore) Import(ctx context.Context, c catalog.Catalog) (*Organization, error) {
	name, err := ValidateName(c.Org.Name)
	if err != nil {
		return nil, fmt.Errorf("organization: %w", err)
	}
	if err := ValidateDescription(c.Org.Description); err != nil {
		return nil, fmt.Errorf("organization: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	org, err := getOrg(ctx, tx, `SELECT * FROM organizations WHERE name = ?`, name)
	switch {
	case errors.Is(err, ErrNotFound):
		if org, err = insertOrg(ctx, tx, name, c.Org.Description); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		org.Description = c.Org.Description
		org.UpdatedAt = time.Now().UTC()
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE organizations SET description = ?, updated_at = ? WHERE id = ?
		`), org.Description, org.UpdatedAt, org.ID); err != nil {
			return nil, err
		}
	}

	if err := replacePages(ctx, tx, org.ID, c.Pages); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return org, nil
}

func replacePages(ctx context.Context, tx *sqlx.Tx, orgID string, pages []catalog.Page) error {
	if err := deleteOrgPages(ctx, tx, orgID); err != nil {
		return err
	}
	for i, p := range pages {
		name, err := ValidateName(p.Name)
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		if err := ValidateDescription(p.Description); err != nil {
			return fmt.Errorf("page %q: %w", name, err)
		}
		page, err := insertPage(ctx, tx, orgID, name, p.Description, i)
		if err != nil {
			return fmt.Errorf("page %q: %w", name, err)
		}
		for j, a := range p.Actions {
			a, err := prepareAction(a)
			if err != nil {
				return fmt.Errorf("page %q action %d: %w", name, j+1, err)
			}
			if _, err := insertAction(ctx, tx, page.ID, a, j); err != nil {
				return fmt.Errorf("page %q action %q: %w", name, a.Name, err)
			}
		}
	}
	return nil
}
