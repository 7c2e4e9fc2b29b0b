// Package store holds the password-history backends. Every store is pure I/O:
// it answers "has this user used this fingerprint" and appends records. The
// failure policy lives in the history gate.
package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidTable is returned when a configured table name is not a plain
// (optionally schema-qualified) SQL identifier.
var ErrInvalidTable = errors.New("invalid history table name")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// splitTable validates table and returns its dot-separated parts.
func splitTable(table string) ([]string, error) {
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	for _, p := range parts {
		if !identifierPattern.MatchString(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
		}
	}
	return parts, nil
}
