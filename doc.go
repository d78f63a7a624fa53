// Package schooldb loads New York City school datasets into a single SQLite
// database file and answers catalog, ad-hoc and canned analytical queries
// against it.
//
// A Database holds only the file path and its options. Every operation opens
// its own connection, performs one unit of work and closes the connection
// before returning. When the connection cannot be established the operation
// does not run and a *ConnectionError is returned.
//
// # Importing data
//
// ImportCSV loads a CSV resource, fetched over HTTP(S) or read from a local
// path, into a table, replacing any table of the same name in one
// transaction. Column types are inferred from the data. Import does the same
// for TSV, LTSV, Parquet and XLSX sources, chosen by file extension, and both
// read gzip, bzip2, xz and zstd compressed input:
//
//	db := schooldb.New("schools.db")
//	err := db.ImportCSV(ctx, "https://example.com/highschools.csv", schooldb.HighSchoolsTable)
//
// # Querying
//
// ListTables and DescribeTable inspect the catalog. RunQuery executes any
// statement verbatim and returns all rows. DifferenceStudentsVsTestTakers
// compares enrollment with SAT participation per borough; by default it logs
// failures and returns an empty result instead of an error.
//
// # Trust model
//
// RunQuery trusts its caller completely. Table names reach SQL text through
// the identifier mode: IdentifierStrict (the default) binds or validates
// them, IdentifierRaw interpolates them verbatim.
//
// # Exporting
//
// ExportTable writes a table as CSV, TSV, LTSV or XLSX, optionally compressed
// with gzip, xz or zstd.
package schooldb
