package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/franklin0603/schooldb"
	"github.com/franklin0603/schooldb/domain/model"
	"github.com/franklin0603/schooldb/internal/config"
	"github.com/franklin0603/schooldb/internal/print"
)

var errUsage = errors.New("invalid arguments")

type app struct {
	db     *schooldb.Database
	cfg    *config.Config
	stdout io.Writer
	tty    bool
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "import":
		return a.importSource(ctx, args, a.db.Import)
	case "import-csv":
		return a.importSource(ctx, args, a.db.ImportCSV)
	case "seed":
		return a.seed(ctx, args)
	case "tables":
		return a.tables(ctx, args)
	case "describe":
		return a.describe(ctx, args)
	case "query":
		return a.query(ctx, args)
	case "difference":
		return a.difference(ctx, args)
	case "export":
		return a.export(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (a *app) importSource(ctx context.Context, args []string, load func(context.Context, string, string) error) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected <source> <table>", errUsage)
	}
	return load(ctx, args[0], args[1])
}

func (a *app) seed(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: seed takes no arguments", errUsage)
	}
	if err := a.db.ImportCSV(ctx, a.cfg.Sources.HighSchools, schooldb.HighSchoolsTable); err != nil {
		return err
	}
	if a.cfg.Sources.SATRecords == "" {
		return nil
	}
	return a.db.ImportCSV(ctx, a.cfg.Sources.SATRecords, schooldb.SATRecordsTable)
}

func (a *app) tables(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: tables takes no arguments", errUsage)
	}
	names, err := a.db.ListTables(ctx)
	if err != nil {
		return err
	}
	result := &model.Result{Columns: []string{"name"}, Rows: make([]model.Row, 0, len(names))}
	for _, name := range names {
		result.Rows = append(result.Rows, model.Row{name})
	}
	return a.render(result)
}

func (a *app) describe(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <table>", errUsage)
	}
	columns, err := a.db.DescribeTable(ctx, args[0])
	if err != nil {
		return err
	}
	result := &model.Result{
		Columns: []string{"cid", "name", "type", "notnull", "dflt_value", "pk"},
		Rows:    make([]model.Row, 0, len(columns)),
	}
	for _, c := range columns {
		var def any
		if c.Default.Valid {
			def = c.Default.String
		}
		result.Rows = append(result.Rows, model.Row{int64(c.Position), c.Name, c.Type, c.NotNull, def, int64(c.PrimaryKey)})
	}
	return a.render(result)
}

func (a *app) query(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected <sql>", errUsage)
	}
	result, err := a.db.RunQuery(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return a.render(result)
}

func (a *app) difference(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: difference takes no arguments", errUsage)
	}
	diffs, err := a.db.DifferenceStudentsVsTestTakers(ctx)
	if err != nil {
		return err
	}
	result := &model.Result{Columns: []string{"boro", "difference"}, Rows: make([]model.Row, 0, len(diffs))}
	for _, d := range diffs {
		result.Rows = append(result.Rows, model.Row{d.Boro, d.Difference})
	}
	return a.render(result)
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	format := fs.String("format", "csv", "csv, tsv, ltsv or xlsx")
	compress := fs.String("compress", "none", "none, gz, xz or zst")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: expected <table> <output>", errUsage)
	}

	outputFormat, ok := model.ParseOutputFormat(*format)
	if !ok {
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
	compression, ok := model.ParseCompressionType(*compress)
	if !ok {
		return fmt.Errorf("%w: unknown compression %q", errUsage, *compress)
	}

	opts := schooldb.NewDumpOptions().WithFormat(outputFormat).WithCompression(compression)
	return a.db.ExportTable(ctx, fs.Arg(0), fs.Arg(1), opts)
}

func (a *app) render(result *model.Result) error {
	if a.tty {
		print.RenderTable(a.stdout, result, print.Options{})
		return nil
	}
	return print.RenderCSV(a.stdout, result)
}
