package schooldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/franklin0603/schooldb/domain/model"
)

// ImportCSV loads the CSV resource at source into table, replacing any existing
// table of that name.
//
// source is an http or https URL, a file URL or a local path. A .gz, .bz2, .xz
// or .zst suffix selects decompression. The first row is the header; column
// types are inferred from every value (INTEGER, REAL or TEXT) and missing-value
// markers such as "" or "NA" are stored as NULL.
//
// The replace runs in a single transaction: if the source cannot be fetched or
// parsed, or the write fails, the previous table is left untouched. Failures
// are returned as *ImportError, a failed connection as *ConnectionError.
func (d *Database) ImportCSV(ctx context.Context, source, table string) error {
	return d.importSource(ctx, source, table, model.FileTypeCSV)
}

// Import behaves like ImportCSV but picks the parser from the source extension:
// .csv, .tsv, .ltsv, .parquet or .xlsx (first sheet), each optionally
// compressed. Sources without a recognized extension are parsed as CSV.
func (d *Database) Import(ctx context.Context, source, table string) error {
	fileType := model.DetectFileType(locatorPath(source))
	if fileType == model.FileTypeUnsupported {
		fileType = model.FileTypeCSV
	}
	return d.importSource(ctx, source, table, fileType)
}

func (d *Database) importSource(ctx context.Context, source, table string, fileType model.FileType) error {
	if err := d.checkTableName(table); err != nil {
		d.logger.Error("failed to load data", "source", source, "table", table, "error", err)
		return &ImportError{Source: source, Table: table, Err: err}
	}

	var rows int
	err := d.withConnection(ctx, "import", func(db *sql.DB) error {
		tbl, err := d.loadSource(ctx, source, table, fileType)
		if err != nil {
			return &ImportError{Source: source, Table: table, Err: err}
		}
		if err := replaceTable(ctx, db, tbl); err != nil {
			return &ImportError{Source: source, Table: table, Err: err}
		}
		rows = len(tbl.Records())
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrConnection) {
			d.logger.Error("failed to load data", "source", source, "table", table, "error", err)
		}
		return err
	}

	d.logger.Info("data loaded successfully", "source", source, "table", table, "format", fileType.String(), "rows", rows)
	return nil
}

// replaceTable drops, recreates and fills tbl's table inside one transaction.
func replaceTable(ctx context.Context, db *sql.DB, tbl *model.Table) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to roll back: %w", rbErr))
			}
		}
	}()

	name := quoteIdent(tbl.Name())
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, buildCreateTableQuery(tbl)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if err = insertRecords(ctx, tx, tbl); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func buildCreateTableQuery(tbl *model.Table) string {
	columns := make([]string, 0, len(tbl.Columns()))
	for _, col := range tbl.Columns() {
		columns = append(columns, quoteIdent(col.Name)+" "+col.Type.String())
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tbl.Name()), strings.Join(columns, ", "))
}

func buildInsertQuery(tbl *model.Table) string {
	placeholders := make([]string, len(tbl.Header()))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(tbl.Name()), strings.Join(placeholders, ", "))
}

func insertRecords(ctx context.Context, tx *sql.Tx, tbl *model.Table) error {
	if len(tbl.Records()) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, buildInsertQuery(tbl))
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	columns := tbl.Columns()
	values := make([]any, len(columns))
	for n, record := range tbl.Records() {
		for i, col := range columns {
			values[i] = nil
			if i < len(record) {
				values[i] = model.ConvertValue(record[i], col.Type)
			}
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", n+1, err)
		}
	}
	return nil
}
