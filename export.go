package schooldb

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/franklin0603/schooldb/domain/model"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is the longest sheet name Excel accepts, in characters.
const maxSheetNameLength = 31

// ExportTable writes every row of table to outputPath in the format and
// compression selected by opts. The first line (or row) is the header; NULL
// values are written as empty fields. The output path is used as given; use
// opts.FileExtension to build a conventional name.
//
// bzip2 output is not supported. On failure the partial file is removed and a
// *QueryError is returned.
func (d *Database) ExportTable(ctx context.Context, table, outputPath string, opts model.DumpOptions) error {
	if err := d.checkTableName(table); err != nil {
		d.logger.Error("failed to export table", "table", table, "error", err)
		return &QueryError{Op: "export table", Table: table, Err: err}
	}

	var rows int
	err := d.withConnection(ctx, "export table", func(db *sql.DB) error {
		var err error
		rows, err = exportTable(ctx, db, table, outputPath, opts)
		return err
	})
	if err != nil {
		return d.queryFailed(err, &QueryError{Op: "export table", Table: table}, "failed to export table")
	}

	d.logger.Info("table exported successfully", "table", table, "path", outputPath,
		"format", opts.Format.String(), "compression", opts.Compression.String(), "rows", rows)
	return nil
}

func exportTable(ctx context.Context, db *sql.DB, table, outputPath string, opts model.DumpOptions) (count int, err error) {
	handler := newCompressionHandler(opts.Compression)
	if err := handler.checkWritable(); err != nil {
		return 0, err
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	file, err := os.Create(outputPath) //nolint:gosec // the caller chooses the output path
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(outputPath)
		}
	}()

	writer, cleanup, err := handler.createWriter(file)
	if err != nil {
		return 0, err
	}

	switch opts.Format {
	case model.OutputFormatTSV:
		count, err = writeDelimited(writer, '\t', columns, rows)
	case model.OutputFormatLTSV:
		count, err = writeLTSV(writer, columns, rows)
	case model.OutputFormatXLSX:
		count, err = writeXLSX(writer, table, columns, rows)
	default:
		count, err = writeDelimited(writer, ',', columns, rows)
	}
	if cleanupErr := cleanup(); cleanupErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to finish compression: %w", cleanupErr))
	}
	return count, err
}

// forEachRow scans every remaining row and passes its values to fn.
func forEachRow(rows *sql.Rows, width int, fn func(values []any) error) (int, error) {
	values := make([]any, width)
	ptrs := make([]any, width)
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return count, err
		}
		if err := fn(values); err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}

func writeDelimited(w io.Writer, delimiter rune, columns []string, rows *sql.Rows) (int, error) {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := csvWriter.Write(columns); err != nil {
		return 0, err
	}

	record := make([]string, len(columns))
	count, err := forEachRow(rows, len(columns), func(values []any) error {
		for i, v := range values {
			record[i] = formatValue(v)
		}
		return csvWriter.Write(record)
	})
	if err != nil {
		return count, err
	}
	csvWriter.Flush()
	return count, csvWriter.Error()
}

func writeLTSV(w io.Writer, columns []string, rows *sql.Rows) (int, error) {
	fields := make([]string, len(columns))
	return forEachRow(rows, len(columns), func(values []any) error {
		for i, v := range values {
			fields[i] = columns[i] + ":" + ltsvEscaper.Replace(formatValue(v))
		}
		_, err := io.WriteString(w, strings.Join(fields, "\t")+"\n")
		return err
	})
}

// ltsvEscaper keeps a value on one field of one line.
var ltsvEscaper = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func writeXLSX(w io.Writer, table string, columns []string, rows *sql.Rows) (count int, err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	sheet := table
	if runes := []rune(sheet); len(runes) > maxSheetNameLength {
		sheet = string(runes[:maxSheetNameLength])
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return 0, err
	}

	cells := make([]any, len(columns))
	next := 2
	count, err = forEachRow(rows, len(columns), func(values []any) error {
		for i, v := range values {
			cells[i] = xlsxValue(v)
		}
		if err := setRow(f, sheet, next, cells); err != nil {
			return err
		}
		next++
		return nil
	})
	if err != nil {
		return count, err
	}

	if _, err := f.WriteTo(w); err != nil {
		return count, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return count, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values = append([]any(nil), values...)
	return f.SetSheetRow(sheet, cell, &values)
}

// xlsxValue keeps numbers numeric and turns everything else into text.
func xlsxValue(v any) any {
	switch val := v.(type) {
	case int64, float64:
		return val
	default:
		return formatValue(v)
	}
}

// formatValue renders a scanned column value as text. NULL becomes "".
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
