package schooldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/franklin0603/schooldb/domain/model"
)

const listTablesQuery = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`

const describeTableQuery = `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`

// ListTables returns the names of all user tables in catalog order. The order
// is not guaranteed to be sorted. An empty database yields an empty slice;
// a catalog failure yields a *QueryError and no names.
func (d *Database) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	err := d.withConnection(ctx, "list tables", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, listTablesQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		names = make([]string, 0)
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, d.queryFailed(err, &QueryError{Op: "list tables"}, "failed to retrieve table names")
	}

	d.logger.Info("table names retrieved successfully", "count", len(names))
	return names, nil
}

// DescribeTable returns the column descriptors of table as reported by SQLite's
// table_info pragma. A table that does not exist yields an empty slice, not an
// error.
//
// In IdentifierStrict mode the name is bound as a parameter. In IdentifierRaw
// mode it is interpolated into "PRAGMA table_info(<name>)" verbatim, so any
// SQL it carries reaches the engine.
func (d *Database) DescribeTable(ctx context.Context, table string) ([]model.ColumnDescriptor, error) {
	query, args := describeTableQuery, []any{table}
	if d.identifierMode == IdentifierRaw {
		query, args = fmt.Sprintf("PRAGMA table_info(%s)", table), nil
	}

	var columns []model.ColumnDescriptor
	err := d.withConnection(ctx, "describe table", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		columns = make([]model.ColumnDescriptor, 0)
		for rows.Next() {
			var (
				col     model.ColumnDescriptor
				colType sql.NullString
				notNull int
			)
			if err := rows.Scan(&col.Position, &col.Name, &colType, &notNull, &col.Default, &col.PrimaryKey); err != nil {
				return err
			}
			col.Type = colType.String
			col.NotNull = notNull != 0
			columns = append(columns, col)
		}
		return rows.Err()
	})
	if err != nil {
		qe := &QueryError{Op: "describe table", Table: table}
		if d.identifierMode == IdentifierRaw {
			qe.Statement = query
		}
		return nil, d.queryFailed(err, qe, "failed to retrieve table info")
	}

	d.logger.Info("table info retrieved successfully", "table", table, "columns", len(columns))
	return columns, nil
}

// queryFailed logs and returns err. Connection failures pass through unchanged;
// anything else is wrapped in qe.
func (d *Database) queryFailed(err error, qe *QueryError, msg string) error {
	if errors.Is(err, ErrConnection) {
		return err
	}
	qe.Err = err
	d.logger.Error(msg, "op", qe.Op, "table", qe.Table, "error", err)
	return qe
}
