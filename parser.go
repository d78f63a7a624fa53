package schooldb

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/franklin0603/schooldb/domain/model"
	"github.com/xuri/excelize/v2"
)

// File format delimiters
const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

const utf8BOM = "\ufeff"

// parseTable parses decompressed source content of the given format.
func parseTable(ctx context.Context, reader io.Reader, fileType model.FileType, tableName string) (*model.Table, error) {
	switch fileType {
	case model.FileTypeCSV:
		return parseDelimited(reader, csvDelimiter, tableName)
	case model.FileTypeTSV:
		return parseDelimited(reader, tsvDelimiter, tableName)
	case model.FileTypeLTSV:
		return parseLTSV(reader, tableName)
	case model.FileTypeXLSX:
		return parseXLSX(reader, tableName)
	case model.FileTypeParquet:
		return parseParquet(ctx, reader, tableName)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileType)
	}
}

// parseDelimited parses CSV or TSV content whose first row is the header.
// Short rows are padded with empty fields; rows longer than the header are rejected.
func parseDelimited(reader io.Reader, delimiter rune, tableName string) (*model.Table, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1

	first, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	header, err := newHeader(first)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(row) > len(header) {
			line, _ := csvReader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(row))
		}
		records = append(records, padRecord(row, len(header)))
	}

	return model.NewTable(tableName, header, records), nil
}

// parseLTSV parses labeled tab-separated values. Columns appear in the order
// their labels are first seen.
func parseLTSV(reader io.Reader, tableName string) (*model.Table, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read LTSV: %w", err)
	}

	var header model.Header
	index := make(map[string]int)
	var rows []map[string]string

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make(map[string]string)
		for _, pair := range strings.Split(line, "\t") {
			kv := strings.SplitN(pair, ":", 2)
			if len(kv) != 2 {
				continue
			}
			key := strings.TrimSpace(kv[0])
			row[key] = strings.TrimSpace(kv[1])
			if _, ok := index[key]; !ok {
				index[key] = len(header)
				header = append(header, key)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, ErrEmptyData
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		record := make(model.Record, len(header))
		for key, value := range row {
			record[index[key]] = value
		}
		records = append(records, record)
	}
	return model.NewTable(tableName, header, records), nil
}

// parseXLSX loads the first sheet of a workbook. Its first row is the header;
// short rows are padded and rows longer than the header are rejected.
func parseXLSX(reader io.Reader, tableName string) (*model.Table, error) {
	xlsxFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, errors.New("no sheets found in XLSX file")
	}

	rows, err := xlsxFile.GetRows(sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetNames[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyData
	}

	header, err := newHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			// Row 1 holds the header.
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", i+2, len(header), len(row))
		}
		records = append(records, padRecord(row, len(header)))
	}
	return model.NewTable(tableName, header, records), nil
}

// parseParquet reads every row group of a Parquet file. Values are rendered as
// text and typed again by column inference; nulls become empty fields.
func parseParquet(ctx context.Context, reader io.Reader, tableName string) (*model.Table, error) {
	// Parquet requires random access
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make(model.Header, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	if err := model.ValidateColumnNames(header); err != nil {
		return nil, err
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	records := make([]model.Record, 0, table.NumRows())
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			row := make(model.Record, batch.NumCols())
			for j, col := range batch.Columns() {
				if col.IsNull(i) {
					continue
				}
				row[j] = col.ValueStr(i)
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}

	return model.NewTable(tableName, header, records), nil
}

// newHeader builds a header from the first source row: it strips a UTF-8 byte
// order mark, names blank columns "Unnamed: <index>" and rejects duplicates.
func newHeader(row []string) (model.Header, error) {
	header := make(model.Header, len(row))
	for i, name := range row {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = name
	}
	if err := model.ValidateColumnNames(header); err != nil {
		return nil, err
	}
	return header, nil
}

// padRecord returns row extended with empty fields up to width.
func padRecord(row []string, width int) model.Record {
	record := make(model.Record, width)
	copy(record, row)
	return record
}
