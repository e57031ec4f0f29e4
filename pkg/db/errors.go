package db

import (
	"strings"

	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure on
// either Postgres or sqlite. When constraintName is provided, the helper also
// requires the constraint text to appear in the error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := pkgerrors.PGCode(err) == pgUniqueViolation ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName) || pkgerrors.Dump(err).PGConstraint == constraintName
	}
	return true
}
