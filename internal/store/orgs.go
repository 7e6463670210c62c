package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-copilot/internal/catalog"
)

// Organization represents a row in the organizations table.
type Organization struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Info returns the name and description the prompt speaks for.
func (o *Organization) Info() catalog.OrgInfo {
	return catalog.OrgInfo{Name: o.Name, Description: o.Description}
}

// OrgStore is the sqlx-backed store for organizations.
type OrgStore struct {
	db *sqlx.DB
}

func NewOrgStore(db *sqlx.DB) *OrgStore {
	return &OrgStore{db: db}
}

// Create inserts a new organization. Names are unique.
func (s *OrgStore) Create(ctx context.Context, name, description string) (*Organization, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	return insertOrg(ctx, s.db, name, description)
}

// GetByID returns the organization matching id, or ErrNotFound.
func (s *OrgStore) GetByID(ctx context.Context, id string) (*Organization, error) {
	return getOrg(ctx, s.db, `SELECT * FROM organizations WHERE id = ?`, id)
}

// GetByName returns the organization matching name, or ErrNotFound.
func (s *OrgStore) GetByName(ctx context.Context, name string) (*Organization, error) {
	return getOrg(ctx, s.db, `SELECT * FROM organizations WHERE name = ?`, name)
}

// List returns all organizations ordered by name.
func (s *OrgStore) List(ctx context.Context) ([]*Organization, error) {
	orgs := []*Organization{}
	if err := s.db.SelectContext(ctx, &orgs, `SELECT * FROM organizations ORDER BY name ASC`); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update renames an organization and replaces its description.
func (s *OrgStore) Update(ctx context.Context, id, name, description string) (*Organization, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE organizations SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`), name, description, time.Now().UTC(), id)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes an organization together with its pages and actions.
func (s *OrgStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteOrgPages(ctx, tx, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM organizations WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func insertOrg(ctx context.Context, ext sqlx.ExtContext, name, description string) (*Organization, error) {
	now := time.Now().UTC()
	org := &Organization{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := ext.ExecContext(ctx, ext.Rebind(`
		INSERT INTO organizations (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), org.ID, org.Name, org.Description, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return org, nil
}

func getOrg(ctx context.Context, ext sqlx.ExtContext, query string, arg any) (*Organization, error) {
	var o Organization
	err := sqlx.GetContext(ctx, ext, &o, ext.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// deleteOrgPages removes every page of an organization and the pages' actions.
func deleteOrgPages(ctx context.Context, ext sqlx.ExtContext, orgID string) error {
	if _, err := ext.ExecContext(ctx, ext.Rebind(`
		DELETE FROM actions WHERE page_id IN (SELECT id FROM pages WHERE org_id = ?)
	`), orgID); err != nil {
		return err
	}
	_, err := ext.ExecContext(ctx, ext.Rebind(`DELETE FROM pages WHERE org_id = ?`), orgID)
	return err
}
