// Command schooldb loads NYC school datasets into SQLite and queries them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/franklin0603/schooldb"
	"github.com/franklin0603/schooldb/internal/config"
)

const usage = `usage: schooldb [-config file] [-db path] <command> [args]

commands:
  import <source> <table>       load a csv, tsv, ltsv, parquet or xlsx source
  import-csv <source> <table>   load a CSV source
  seed                          load the configured high school and SAT sources
  tables                        list tables
  describe <table>              show the columns of a table
  query <sql>                   run a statement and print its rows
  difference                    students minus SAT takers per borough
  export [-format f] [-compress c] <table> <output>
                                write a table to a file
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stdoutIsTTY := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, stdoutIsTTY))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, tty bool) int {
	fs := flag.NewFlagSet("schooldb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "configuration file (default ./schooldb.yaml)")
	dbPath := fs.String("db", "", "database file, overrides the configuration")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	logger, err := cfg.Logger(stderr)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	opts, err := cfg.Options(logger)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	app := &app{
		db:     schooldb.New(cfg.Database, opts...),
		cfg:    cfg,
		stdout: stdout,
		tty:    tty,
	}
	if err := app.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
		}
		return 1
	}
	return 0
}
