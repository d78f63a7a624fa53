// Package print renders query results for the command line.
package print

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/franklin0603/schooldb/domain/model"
)

// Options controls RenderTable.
type Options struct {
	MaxWidth int // max width for each column, 0 = 40
}

// RenderTable writes result as a bordered ASCII table.
func RenderTable(w io.Writer, result *model.Result, opts Options) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 40
	}

	cols := len(result.Columns)
	if cols == 0 {
		fmt.Fprintln(w, "(no columns)")
		return
	}

	widths := make([]int, cols)
	for i, col := range result.Columns {
		widths[i] = min(len(col), opts.MaxWidth)
	}
	for _, r := range result.Rows {
		for i, cell := range r {
			if l := min(len(formatCell(cell)), opts.MaxWidth); l > widths[i] {
				widths[i] = l
			}
		}
	}

	sep := func(ch string) string {
		var b strings.Builder
		b.WriteString("+")
		for i := range widths {
			b.WriteString(strings.Repeat(ch, widths[i]+2))
			b.WriteString("+")
		}
		return b.String()
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("|")
		for i, c := range cells {
			b.WriteString(" ")
			b.WriteString(padRight(truncate(c, widths[i]), widths[i]))
			b.WriteString(" |")
		}
		fmt.Fprintln(w, b.String())
	}

	fmt.Fprintln(w, sep("-"))
	writeRow(result.Columns)
	fmt.Fprintln(w, sep("="))

	cells := make([]string, cols)
	for _, r := range result.Rows {
		for i := range cells {
			cells[i] = ""
			if i < len(r) {
				cells[i] = formatCell(r[i])
			}
		}
		writeRow(cells)
	}
	fmt.Fprintln(w, sep("-"))
	fmt.Fprintf(w, "(%d rows)\n", result.Len())
}

// RenderCSV writes result as CSV with a header line. NULL becomes an empty field.
func RenderCSV(w io.Writer, result *model.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	record := make([]string, len(result.Columns))
	for _, r := range result.Rows {
		for i := range record {
			record[i] = ""
			if i < len(r) && r[i] != nil {
				record[i] = formatCell(r[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case []byte:
		s := string(t)
		if isPrintable(s) {
			return s
		}
		return fmt.Sprintf("<blob %d bytes>", len(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-3] + "..."
}
