package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joestump/joe-copilot/internal/catalog"
)

// Action is a stored catalog action with its row metadata.
type Action struct {
	ID        string `json:"id"`
	PageID    string `json:"page_id"`
	SortOrder int    `json:"sort_order"`
	catalog.Action
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// actionRow is a row in the actions table. Schema-bearing fields are stored
// as JSON text.
type actionRow struct {
	ID                  string    `db:"id"`
	PageID              string    `db:"page_id"`
	Name                string    `db:"name"`
	Description         string    `db:"description"`
	ActionType          string    `db:"action_type"`
	RequestMethod       string    `db:"request_method"`
	Path                string    `db:"path"`
	Parameters          string    `db:"parameters"`
	RequestBodyContents string    `db:"request_body_contents"`
	Responses           string    `db:"responses"`
	SortOrder           int       `db:"sort_order"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func newActionRow(pageID string, a catalog.Action, order int) (*actionRow, error) {
	params, err := json.Marshal(a.Parameters)
	if err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}
	body, err := json.Marshal(a.RequestBodyContents)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	responses := "null"
	if len(a.Responses) > 0 {
		responses = string(a.Responses)
	}
	now := time.Now().UTC()
	return &actionRow{
		ID:                  uuid.New().String(),
		PageID:              pageID,
		Name:                a.Name,
		Description:         a.Description,
		ActionType:          string(a.ActionType),
		RequestMethod:       string(a.RequestMethod),
		Path:                a.Path,
		Parameters:          string(params),
		RequestBodyContents: string(body),
		Responses:           responses,
		SortOrder:           order,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func (r *actionRow) catalogAction() (catalog.Action, error) {
	a := catalog.Action{
		Name:          r.Name,
		Description:   r.Description,
		ActionType:    catalog.ActionType(r.ActionType),
		RequestMethod: catalog.RequestMethod(r.RequestMethod),
		Path:          r.Path,
	}
	if err := json.Unmarshal([]byte(r.Parameters), &a.Parameters); err != nil {
		return a, fmt.Errorf("decode parameters of action %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.RequestBodyContents), &a.RequestBodyContents); err != nil {
		return a, fmt.Errorf("decode request body of action %s: %w", r.ID, err)
	}
	if r.Responses != "" && r.Responses != "null" {
		a.Responses = json.RawMessage(r.Responses)
	}
	return a, nil
}

func (r *actionRow) action() (*Action, error) {
	a, err := r.catalogAction()
	if err != nil {
		return nil, err
	}
	return &Action{
		ID:        r.ID,
		PageID:    r.PageID,
		SortOrder: r.SortOrder,
		Action:    a,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// prepareAction normalizes and validates an action as submitted by an editor.
func prepareAction(a catalog.Action) (catalog.Action, error) {
	a = catalog.NormalizeAction(a)
	if err := catalog.ValidateAction(a); err != nil {
		return a, err
	}
	if len(a.Responses) > 0 && !json.Valid(a.Responses) {
		return a, ErrInvalidResponses
	}
	return a, nil
}

// ActionStore is the sqlx-backed store for actions, scoped by page.
type ActionStore struct {
	db *sqlx.DB
}

func NewActionStore(db *sqlx.DB) *ActionStore {
	return &ActionStore{db: db}
}

// Create validates a and appends it to the page's action list.
func (s *ActionStore) Create(ctx context.Context, pageID string, a catalog.Action) (*Action, error) {
	a, err := prepareAction(a)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := requireRow(ctx, tx, `SELECT COUNT(*) FROM pages WHERE id = ?`, pageID); err != nil {
		return nil, err
	}
	var next int
	if err := tx.GetContext(ctx, &next, tx.Rebind(`
		SELECT COALESCE(MAX(sort_order) + 1, 0) FROM actions WHERE page_id = ?
	`), pageID); err != nil {
		return nil, err
	}
	row, err := insertAction(ctx, tx, pageID, a, next)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return row.action()
}

// GetByID returns the action of pageID matching id, or ErrNotFound.
func (s *ActionStore) GetByID(ctx context.Context, pageID, id string) (*Action, error) {
	var row actionRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM actions WHERE id = ? AND page_id = ?`), id, pageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.action()
}

// ListByPage returns the page's actions in catalog order.
func (s *ActionStore) ListByPage(ctx context.Context, pageID string) ([]*Action, error) {
	var rows []actionRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT * FROM actions WHERE page_id = ? ORDER BY sort_order ASC, name ASC
	`), pageID)
	if err != nil {
		return nil, err
	}
	actions := make([]*Action, 0, len(rows))
	for i := range rows {
		a, err := rows[i].action()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Update replaces every catalog field of an action. Position is kept.
func (s *ActionStore) Update(ctx context.Context, pageID, id string, a catalog.Action) (*Action, error) {
	a, err := prepareAction(a)
	if err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, pageID, id)
	if err != nil {
		return nil, err
	}
	row, err := newActionRow(pageID, a, existing.SortOrder)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE actions SET name = ?, description = ?, action_type = ?, request_method = ?, path = ?,
			parameters = ?, request_body_contents = ?, responses = ?, updated_at = ?
		WHERE id = ? AND page_id = ?
	`), row.Name, row.Description, row.ActionType, row.RequestMethod, row.Path,
		row.Parameters, row.RequestBodyContents, row.Responses, row.UpdatedAt, id, pageID)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return s.GetByID(ctx, pageID, id)
}

// Delete removes an action.
func (s *ActionStore) Delete(ctx context.Context, pageID, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM actions WHERE id = ? AND page_id = ?`), id, pageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertAction(ctx context.Context, ext sqlx.ExtContext, pageID string, a catalog.Action, order int) (*actionRow, error) {
	row, err := newActionRow(pageID, a, order)
	if err != nil {
		return nil, err
	}
	_, err = sqlx.NamedExecContext(ctx, ext, `
		INSERT INTO actions (id, page_id, name, description, action_type, request_method, path,
			parameters, request_body_contents, responses, sort_order, created_at, updated_at)
		VALUES (:id, :page_id, :name, :description, :action_type, :request_method, :path,
			:parameters, :request_body_contents, :responses, :sort_order, :created_at, :updated_at)
	`, row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return row, nil
}
