package schooldb

import (
	"context"
	"database/sql"

	"github.com/franklin0603/schooldb/domain/model"
)

// RunQuery executes statement verbatim and returns every row it produces.
//
// The statement is neither parameterized nor escaped: RunQuery is a
// pass-through endpoint that trusts its caller completely. The result is
// materialized in memory. Engine errors are returned as *QueryError and no
// rows are returned with them.
func (d *Database) RunQuery(ctx context.Context, statement string) (*model.Result, error) {
	var result *model.Result
	err := d.withConnection(ctx, "run query", func(db *sql.DB) error {
		var err error
		result, err = query(ctx, db, statement)
		return err
	})
	if err != nil {
		return nil, d.queryFailed(err, &QueryError{Op: "run query", Statement: statement}, "failed to execute query")
	}

	d.logger.Info("query executed successfully", "rows", result.Len())
	return result, nil
}

// query runs statement on db and materializes the result.
func query(ctx context.Context, db *sql.DB, statement string, args ...any) (*model.Result, error) {
	rows, err := db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &model.Result{
		Columns: columns,
		Rows:    make([]model.Row, 0),
	}
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, model.Row(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
