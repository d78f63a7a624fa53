package schooldb

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// checkTableName validates a table name that will be placed into SQL text.
// Strict mode accepts plain identifiers only; raw mode accepts any non-empty name.
func (d *Database) checkTableName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyTableName
	}
	if d.identifierMode == IdentifierStrict && !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// quoteIdent quotes an identifier for SQLite, doubling embedded quotes.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
