package schooldb

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const highSchoolCount = 427

// boroOrder is the order in which boroughs first appear in the fixture.
var boroOrder = []string{"K", "M", "Q", "X", "R"}

type highSchool struct {
	dbn           string
	name          string
	boro          string
	totalStudents int
}

type satRecord struct {
	dbn           string
	numTestTakers int
}

func highSchoolFixture() []highSchool {
	schools := make([]highSchool, 0, highSchoolCount)
	for i := range highSchoolCount {
		boro := boroOrder[i%len(boroOrder)]
		schools = append(schools, highSchool{
			dbn:           fmt.Sprintf("%02d%s%03d", i%32+1, boro, i),
			name:          fmt.Sprintf("High School %d", i),
			boro:          boro,
			totalStudents: 200 + i,
		})
	}
	return schools
}

// satFixture covers every third school plus one dbn with no matching school.
func satFixture() []satRecord {
	var records []satRecord
	for i, s := range highSchoolFixture() {
		if i%3 == 0 {
			records = append(records, satRecord{dbn: s.dbn, numTestTakers: 20 + i%47})
		}
	}
	return append(records, satRecord{dbn: "99Z999", numTestTakers: 1000})
}

func highSchoolsCSV() string {
	var b strings.Builder
	b.WriteString("dbn,school_name,boro,total_students\n")
	for _, s := range highSchoolFixture() {
		fmt.Fprintf(&b, "%s,%s,%s,%d\n", s.dbn, s.name, s.boro, s.totalStudents)
	}
	return b.String()
}

func satRecordsCSV() string {
	var b strings.Builder
	b.WriteString("dbn,num_test_takers\n")
	for _, r := range satFixture() {
		fmt.Fprintf(&b, "%s,%d\n", r.dbn, r.numTestTakers)
	}
	return b.String()
}

// expectedDifferences computes the per-borough join result in ascending order.
func expectedDifferences() []BoroDifference {
	takers := make(map[string]int)
	for _, r := range satFixture() {
		takers[r.dbn] = r.numTestTakers
	}
	sums := make(map[string]int)
	for _, s := range highSchoolFixture() {
		if n, ok := takers[s.dbn]; ok {
			sums[s.boro] += s.totalStudents - n
		}
	}
	out := make([]BoroDifference, 0, len(sums))
	for boro, diff := range sums {
		out = append(out, BoroDifference{Boro: boro, Difference: float64(diff)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Difference < out[j].Difference })
	return out
}

func newTestDatabase(t *testing.T, opts ...Option) *Database {
	t.Helper()
	opts = append([]Option{WithLogger(newDiscardLogger())}, opts...)
	return New(filepath.Join(t.TempDir(), "schools.db"), opts...)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// seedDatabase loads both fixtures into db.
func seedDatabase(t *testing.T, db *Database) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.ImportCSV(ctx, writeFile(t, "highschools.csv", []byte(highSchoolsCSV())), HighSchoolsTable))
	require.NoError(t, db.ImportCSV(ctx, writeFile(t, "sat.csv", []byte(satRecordsCSV())), SATRecordsTable))
}

func countRows(t *testing.T, db *Database, table string) int64 {
	t.Helper()
	result, err := db.RunQuery(context.Background(), "SELECT COUNT(*) FROM "+quoteIdent(table))
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
	count, ok := result.Rows[0][0].(int64)
	require.True(t, ok, "COUNT(*) should scan as int64, got %T", result.Rows[0][0])
	return count
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newBufferLogger returns a logger writing text records to the returned buffer.
func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
