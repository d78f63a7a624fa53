package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	highSchoolsCSV = "dbn,school_name,boro,total_students\n01M292,Henry Street,M,255\n13K430,Brooklyn Tech,K,5958\n"
	satCSV         = "dbn,num_test_takers\n01M292,29\n13K430,1277\n"
)

type cli struct {
	t      *testing.T
	dir    string
	dbPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	return &cli{t: t, dir: dir, dbPath: filepath.Join(dir, "schools.db")}
}

func (c *cli) file(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (c *cli) run(tty bool, args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"-db", c.dbPath}, args...)
	code := run(context.Background(), args, &stdout, &stderr, tty)
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("import, list and query", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)

		code, _, stderr := c.run(false, "import-csv", c.file("hs.csv", highSchoolsCSV), "high_schools")
		require.Equal(t, 0, code, stderr)

		code, stdout, _ := c.run(false, "tables")
		require.Equal(t, 0, code)
		assert.Equal(t, "name\nhigh_schools\n", stdout)

		code, stdout, _ = c.run(false, "query", "SELECT", "dbn", "FROM", "high_schools", "ORDER", "BY", "dbn")
		require.Equal(t, 0, code)
		assert.Equal(t, "dbn\n01M292\n13K430\n", stdout)
	})

	t.Run("terminal output is a table", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		code, _, stderr := c.run(false, "import", c.file("hs.csv", highSchoolsCSV), "high_schools")
		require.Equal(t, 0, code, stderr)

		code, stdout, _ := c.run(true, "query", "SELECT COUNT(*) AS n FROM high_schools")
		require.Equal(t, 0, code)
		assert.Equal(t, "+---+\n| n |\n+===+\n| 2 |\n+---+\n(1 rows)\n", stdout)
	})

	t.Run("describe", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		code, _, stderr := c.run(false, "import-csv", c.file("hs.csv", highSchoolsCSV), "high_schools")
		require.Equal(t, 0, code, stderr)

		code, stdout, _ := c.run(false, "describe", "high_schools")
		require.Equal(t, 0, code)
		assert.Equal(t, "cid,name,type,notnull,dflt_value,pk\n"+
			"0,dbn,TEXT,false,,0\n"+
			"1,school_name,TEXT,false,,0\n"+
			"2,boro,TEXT,false,,0\n"+
			"3,total_students,INTEGER,false,,0\n", stdout)
	})

	t.Run("seed and difference", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		config := c.file("schooldb.yaml", "sources:\n  high_schools: "+c.file("hs.csv", highSchoolsCSV)+"\n  sat_records: "+c.file("sat.csv", satCSV)+"\n")

		code, _, stderr := c.run(false, "-config", config, "seed")
		require.Equal(t, 0, code, stderr)

		code, stdout, _ := c.run(false, "difference")
		require.Equal(t, 0, code)
		assert.Equal(t, "boro,difference\nM,226\nK,4681\n", stdout)
	})

	t.Run("export", func(t *testing.T) {
		t.Parallel()
		c := newCLI(t)
		code, _, stderr := c.run(false, "import-csv", c.file("sat.csv", satCSV), "sat_records")
		require.Equal(t, 0, code, stderr)

		out := filepath.Join(c.dir, "sat.tsv")
		code, _, stderr = c.run(false, "export", "-format", "tsv", "sat_records", out)
		require.Equal(t, 0, code, stderr)

		data, err := os.ReadFile(out) //nolint:gosec
		require.NoError(t, err)
		assert.Equal(t, "dbn\tnum_test_takers\n01M292\t29\n13K430\t1277\n", string(data))
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			args []string
			want string
		}{
			{"no command", nil, "usage:"},
			{"unknown command", []string{"drop"}, `unknown command "drop"`},
			{"missing import args", []string{"import-csv", "hs.csv"}, "expected <source> <table>"},
			{"bad format", []string{"export", "-format", "json", "t", "out"}, `unknown format "json"`},
			{"bad compression", []string{"export", "-compress", "rar", "t", "out"}, `unknown compression "rar"`},
			{"bad query", []string{"query", "SELEKT 1"}, "run query failed"},
			{"missing config", []string{"-config", "/nonexistent/schooldb.yaml", "tables"}, "read config"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				c := newCLI(t)
				code, _, stderr := c.run(false, tt.args...)
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, tt.want)
			})
		}
	})
}
