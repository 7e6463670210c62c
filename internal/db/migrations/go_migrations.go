// Package migrations holds the goose migrations for organizations, pages and
// actions. SQL files cover what every driver accepts as-is; Go migrations
// cover tables whose column types depend on the driver.
package migrations

import "strings"

// dialect is the goose dialect the migrations run against. The db package
// sets it before every goose run.
var dialect string

// SetDialect records the goose dialect ("sqlite3", "postgres" or "mysql").
func SetDialect(d string) {
	dialect = d
}

// documentType is the column type for JSON documents stored as text.
// MySQL TEXT stops at 64 KiB, so MySQL gets MEDIUMTEXT.
func documentType() string {
	if dialect == "mysql" {
		return "MEDIUMTEXT"
	}
	return "TEXT"
}

// expandDDL substitutes {{DOC}} placeholders with the document column type.
func expandDDL(ddl string) string {
	return strings.ReplaceAll(ddl, "{{DOC}}", documentType())
}
