package migrations

// The actions table stores its JSON documents as text (see documentType).
// Native JSON column types reorder object keys.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateActions, downCreateActions)
}

const actionsDDL = `CREATE TABLE IF NOT EXISTS actions (
    id                    VARCHAR(36)   PRIMARY KEY,
    page_id               VARCHAR(36)   NOT NULL,
    name                  VARCHAR(255)  NOT NULL,
    description           VARCHAR(1000) NOT NULL DEFAULT '',
    action_type           VARCHAR(20)   NOT NULL DEFAULT 'http',
    request_method        VARCHAR(10)   NOT NULL DEFAULT '',
    path                  VARCHAR(2048) NOT NULL DEFAULT '',
    parameters            {{DOC}}       NOT NULL,
    request_body_contents {{DOC}}       NOT NULL,
    responses             {{DOC}}       NOT NULL,
    sort_order            INTEGER       NOT NULL DEFAULT 0,
    created_at            TIMESTAMP     NOT NULL,
    updated_at            TIMESTAMP     NOT NULL,
    UNIQUE (page_id, name),
    FOREIGN KEY (page_id) REFERENCES pages (id) ON DELETE CASCADE
)`

func upCreateActions(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, expandDDL(actionsDDL)); err != nil {
		return fmt.Errorf("create actions table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX idx_actions_page_order ON actions (page_id, sort_order)`)
	return err
}

func downCreateActions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS actions`)
	return err
}
