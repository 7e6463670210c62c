package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Page represents a row in the pages table.
type Page struct {
	ID          string    `db:"id" json:"id"`
	OrgID       string    `db:"org_id" json:"org_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PageStore is the sqlx-backed store for pages. Every operation is scoped to
// an organization; a page of another organization reads as ErrNotFound.
type PageStore struct {
	db *sqlx.DB
}

func NewPageStore(db *sqlx.DB) *PageStore {
	return &PageStore{db: db}
}

// Create appends a page to the end of the organization's catalog.
func (s *PageStore) Create(ctx context.Context, orgID, name, description string) (*Page, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := requireRow(ctx, tx, `SELECT COUNT(*) FROM organizations WHERE id = ?`, orgID); err != nil {
		return nil, err
	}
	var next int
	if err := tx.GetContext(ctx, &next, tx.Rebind(`
		SELECT COALESCE(MAX(sort_order) + 1, 0) FROM pages WHERE org_id = ?
	`), orgID); err != nil {
		return nil, err
	}
	p, err := insertPage(ctx, tx, orgID, name, description, next)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns the page of orgID matching id, or ErrNotFound.
func (s *PageStore) GetByID(ctx context.Context, orgID, id string) (*Page, error) {
	var p Page
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT * FROM pages WHERE id = ? AND org_id = ?`), id, orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByOrg returns the organization's pages in catalog order.
func (s *PageStore) ListByOrg(ctx context.Context, orgID string) ([]*Page, error) {
	pages := []*Page{}
	err := s.db.SelectContext(ctx, &pages, s.db.Rebind(`
		SELECT * FROM pages WHERE org_id = ? ORDER BY sort_order ASC, name ASC
	`), orgID)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// Update renames a page and replaces its description. Catalog position is kept.
func (s *PageStore) Update(ctx context.Context, orgID, id, name, description string) (*Page, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	if _, err := s.GetByID(ctx, orgID, id); err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE pages SET name = ?, description = ?, updated_at = ? WHERE id = ? AND org_id = ?
	`), name, description, time.Now().UTC(), id, orgID)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return s.GetByID(ctx, orgID, id)
}

// Delete removes a page and its actions.
func (s *PageStore) Delete(ctx context.Context, orgID, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := requireRow(ctx, tx, `SELECT COUNT(*) FROM pages WHERE id = ? AND org_id = ?`, id, orgID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM actions WHERE page_id = ?`), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM pages WHERE id = ?`), id); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPage(ctx context.Context, ext sqlx.ExtContext, orgID, name, description string, order int) (*Page, error) {
	now := time.Now().UTC()
	p := &Page{
		ID:          uuid.New().String(),
		OrgID:       orgID,
		Name:        name,
		Description: description,
		SortOrder:   order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := ext.ExecContext(ctx, ext.Rebind(`
		INSERT INTO pages (id, org_id, name, description, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.OrgID, p.Name, p.Description, p.SortOrder, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return p, nil
}

// requireRow returns ErrNotFound unless the COUNT(*) query matches a row.
func requireRow(ctx context.Context, ext sqlx.ExtContext, query string, args ...any) error {
	var n int
	if err := sqlx.GetContext(ctx, ext, &n, ext.Rebind(query), args...); err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
