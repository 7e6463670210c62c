// Package store persists organizations and their page/action catalogs.
package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a name is already used within its scope
	// (organizations globally, pages per organization, actions per page).
	ErrDuplicateName = errors.New("name is already in use")
)

// isUniqueConstraintError reports whether err is a unique-index violation on
// any of the supported drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

// mapWriteError turns a unique violation into ErrDuplicateName.
func mapWriteError(err error) error {
	if isUniqueConstraintError(err) {
		return ErrDuplicateName
	}
	return err
}
