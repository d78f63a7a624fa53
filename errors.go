package schooldb

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error values. The typed errors below match the class sentinels
// through errors.Is.
var (
	// ErrConnection indicates the database file could not be opened or created
	ErrConnection = errors.New("schooldb: connection failed")

	// ErrImport indicates a tabular source could not be loaded into a table
	ErrImport = errors.New("schooldb: import failed")

	// ErrQuery indicates the engine rejected a catalog, schema or ad-hoc query
	ErrQuery = errors.New("schooldb: query failed")

	// ErrEmptyTableName indicates an empty table name was supplied
	ErrEmptyTableName = errors.New("schooldb: table name cannot be empty")

	// ErrInvalidIdentifier indicates a table name outside the allowed identifier set
	ErrInvalidIdentifier = errors.New("schooldb: invalid identifier")

	// ErrEmptyData indicates that the data source contains no records
	ErrEmptyData = errors.New("schooldb: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("schooldb: unsupported file format")

	// ErrUnsupportedCompression indicates a compression type that cannot be used for the operation
	ErrUnsupportedCompression = errors.New("schooldb: unsupported compression")
)

// ConnectionError is returned when the engine cannot open the database file.
// Every guarded operation refuses to run when it occurs.
type ConnectionError struct {
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("schooldb: connect failed, path: %s: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConnection.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// ImportError is returned when fetching, parsing or writing a source fails.
type ImportError struct {
	Source string
	Table  string
	Err    error
}

func (e *ImportError) Error() string {
	return describe("import", []string{"source: " + e.Source, "table: " + e.Table}, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrImport.
func (e *ImportError) Is(target error) bool {
	return target == ErrImport
}

// QueryError is returned when the engine rejects a statement.
type QueryError struct {
	// Op names the failing operation, e.g. "list tables" or "run query".
	Op        string
	Table     string
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	var parts []string
	if e.Table != "" {
		parts = append(parts, "table: "+e.Table)
	}
	if e.Statement != "" {
		parts = append(parts, "statement: "+compact(e.Statement))
	}
	return describe(e.Op, parts, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

func describe(op string, details []string, err error) string {
	parts := append([]string{fmt.Sprintf("schooldb: %s failed", op)}, details...)
	msg := strings.Join(parts, ", ")
	if err != nil {
		return msg + ": " + err.Error()
	}
	return msg
}

// compact collapses whitespace so multi-line statements fit one log line.
func compact(statement string) string {
	return strings.Join(strings.Fields(statement), " ")
}
