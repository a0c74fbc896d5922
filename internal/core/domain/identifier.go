package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Identifier is a column or table name that has passed validation.
// Query builders accept only Identifier values, so an unvalidated string
// can never reach a generated SQL statement.
type Identifier string

// ValidIdentifier reports whether name is a simple SQL identifier.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// NewIdentifier validates name and returns it as an Identifier.
// This is the sole injection defense for names interpolated into SQL.
func NewIdentifier(name string) (Identifier, error) {
	if !ValidIdentifier(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return Identifier(name), nil
}

// Quoted returns the identifier wrapped in double quotes.
func (id Identifier) Quoted() string {
	return `"` + string(id) + `"`
}

func (id Identifier) String() string {
	return string(id)
}

// EscapeString escapes a value for use as a SQL string literal by
// doubling single quotes. Identifiers go through NewIdentifier instead.
func EscapeString(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
