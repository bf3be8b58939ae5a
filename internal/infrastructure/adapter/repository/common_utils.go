package repository

import (
	"strings"
)

// ErrorClassifier recognizes driver error categories the repositories need to
// translate into domain errors. Commission settlement relies on the
// duplicate-key check: the unique (referrer, referred user) index rejects a
// second commission insert, and the repository turns that rejection into
// ErrDuplicateCommission.
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// IsDuplicateKeyError reports whether the error is a unique-index violation.
// Matches the postgres message and SQLSTATE plus the wordings other drivers
// use, since tests may run against a different dialect.
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "SQLSTATE 23505") ||
		strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "Duplicate entry")
}
