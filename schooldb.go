package schooldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/franklin0603/schooldb/domain/model"
	_ "modernc.org/sqlite" // register the "sqlite" driver
)

// DriverName is the database/sql driver backing every connection.
const DriverName = "sqlite"

// Type aliases for model types returned by the facade.
type (
	// Result is a fully materialized query result
	Result = model.Result
	// Row is one result row
	Row = model.Row
	// ColumnDescriptor is one column reported by DescribeTable
	ColumnDescriptor = model.ColumnDescriptor
	// BoroDifference is one row of DifferenceStudentsVsTestTakers
	BoroDifference = model.BoroDifference
	// DumpOptions represents options for exporting a table
	DumpOptions = model.DumpOptions
	// OutputFormat represents the export file format
	OutputFormat = model.OutputFormat
	// CompressionType represents the compression type
	CompressionType = model.CompressionType
)

// Re-export constants for easier use
const (
	OutputFormatCSV  = model.OutputFormatCSV
	OutputFormatTSV  = model.OutputFormatTSV
	OutputFormatLTSV = model.OutputFormatLTSV
	OutputFormatXLSX = model.OutputFormatXLSX

	CompressionNone = model.CompressionNone
	CompressionGZ   = model.CompressionGZ
	CompressionBZ2  = model.CompressionBZ2
	CompressionXZ   = model.CompressionXZ
	CompressionZSTD = model.CompressionZSTD
)

// NewDumpOptions creates new DumpOptions with default values (CSV format, no compression)
var NewDumpOptions = model.NewDumpOptions

// Database is a facade over one SQLite database file.
//
// Database holds no open resources. Every operation opens its own connection,
// performs one unit of work and closes the connection before returning, so a
// Database may be shared between goroutines; the engine's own locking governs
// concurrent writers.
type Database struct {
	path            string
	logger          *slog.Logger
	identifierMode  IdentifierMode
	analyticsPolicy ErrorPolicy
	httpClient      *http.Client
}

// New returns a Database for the file at path. The path is not checked until
// the first connection attempt; SQLite creates the file if it does not exist.
func New(path string, opts ...Option) *Database {
	d := &Database{
		path:            path,
		logger:          slog.Default(),
		identifierMode:  IdentifierStrict,
		analyticsPolicy: SwallowErrors,
		httpClient:      &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Connect opens a connection to the database file and verifies that the engine
// can use it. The caller must Close the returned handle.
//
// The handle is limited to a single underlying connection. A path that cannot
// be opened or a file that is not a SQLite database is reported as a
// *ConnectionError.
func (d *Database) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(DriverName, d.path)
	if err != nil {
		d.logger.Error("database connection failed", "path", d.path, "error", err)
		return nil, &ConnectionError{Path: d.path, Err: err}
	}
	db.SetMaxOpenConns(1)

	// sql.Open is lazy; the engine opens the file on first use and reads
	// its header on the first schema access.
	var schemaVersion int64
	err = db.PingContext(ctx)
	if err == nil {
		err = db.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&schemaVersion)
	}
	if err != nil {
		closeErr := db.Close()
		d.logger.Error("database connection failed", "path", d.path, "error", err)
		if closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close database: %w", closeErr))
		}
		return nil, &ConnectionError{Path: d.path, Err: err}
	}

	d.logger.Info("database connection successful", "path", d.path)
	return db, nil
}

// withConnection runs fn with a fresh connection and closes it on every exit
// path. fn never runs when the connection cannot be established.
func (d *Database) withConnection(ctx context.Context, op string, fn func(db *sql.DB) error) error {
	db, err := d.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			d.logger.Warn("failed to close database", "op", op, "path", d.path, "error", closeErr)
		}
	}()
	return fn(db)
}
