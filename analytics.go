package schooldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/franklin0603/schooldb/domain/model"
)

// Tables read by DifferenceStudentsVsTestTakers.
const (
	HighSchoolsTable = "high_schools"
	SATRecordsTable  = "sat_records"
)

const differenceStudentsVsTestTakersQuery = `
SELECT
  hs.boro,
  SUM(hs.total_students) - SUM(sr.num_test_takers) AS difference
FROM
  high_schools hs
JOIN
  sat_records sr ON hs.dbn = sr.dbn
GROUP BY
  hs.boro
ORDER BY
  difference ASC`

// DifferenceStudentsVsTestTakers returns, per borough, the number of enrolled
// students minus the number of SAT takers, joining high_schools and
// sat_records on dbn, in ascending order of the difference.
//
// Under the default SwallowErrors policy every failure, including a failed
// connection or missing tables, is logged and an empty slice is returned with
// a nil error; callers cannot tell "no data" from "query failed". Use
// WithAnalyticsErrorPolicy(ReturnErrors) to receive the error instead.
func (d *Database) DifferenceStudentsVsTestTakers(ctx context.Context) ([]model.BoroDifference, error) {
	var out []model.BoroDifference
	err := d.withConnection(ctx, "difference students vs test takers", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, differenceStudentsVsTestTakersQuery)
		if err != nil {
			return &QueryError{Op: "difference students vs test takers", Err: err}
		}
		defer rows.Close()

		out = make([]model.BoroDifference, 0)
		for rows.Next() {
			var (
				boro       sql.NullString
				difference sql.NullFloat64
			)
			if err := rows.Scan(&boro, &difference); err != nil {
				return &QueryError{Op: "difference students vs test takers", Err: fmt.Errorf("failed to scan row: %w", err)}
			}
			out = append(out, model.BoroDifference{Boro: boro.String, Difference: difference.Float64})
		}
		if err := rows.Err(); err != nil {
			return &QueryError{Op: "difference students vs test takers", Err: err}
		}
		return nil
	})
	if err != nil {
		d.logger.Error("failed to calculate the difference", "policy", d.analyticsPolicy.String(), "error", err)
		if d.analyticsPolicy == ReturnErrors {
			return nil, err
		}
		return []model.BoroDifference{}, nil
	}

	d.logger.Info("retrieved the difference between total students and number of test takers", "boros", len(out))
	return out, nil
}
