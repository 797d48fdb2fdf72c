// Package id generates identifiers for all stored entities.
package id

import (
	"github.com/google/uuid"
)

// ID aliases uuid.UUID so callers get the full UUID API without a
// separate import.
type ID = uuid.UUID

// New returns a UUIDv7. The embedded timestamp keeps ids roughly
// insert-ordered, which keeps B-tree pages warm and lets listings
// sort by id instead of created_at.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source does; fall back to v4.
		return uuid.New()
	}
	return v7
}

// Parse converts a string to an ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse is Parse for constants and tests; panics on bad input.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether the ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
