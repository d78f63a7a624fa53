package print

import (
	"bytes"
	"strings"
	"testing"

	"github.com/franklin0603/schooldb/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	t.Run("renders header, rows and count", func(t *testing.T) {
		t.Parallel()
		result := &model.Result{
			Columns: []string{"boro", "difference"},
			Rows: []model.Row{
				{"R", float64(-12.5)},
				{"K", int64(300)},
				{nil, []byte("x")},
			},
		}

		var buf bytes.Buffer
		RenderTable(&buf, result, Options{})

		want := strings.Join([]string{
			"+------+------------+",
			"| boro | difference |",
			"+======+============+",
			"| R    | -12.5      |",
			"| K    | 300        |",
			"| NULL | x          |",
			"+------+------------+",
			"(3 rows)",
			"",
		}, "\n")
		assert.Equal(t, want, buf.String())
	})

	t.Run("truncates wide cells", func(t *testing.T) {
		t.Parallel()
		result := &model.Result{
			Columns: []string{"school_name"},
			Rows:    []model.Row{{"Brooklyn Technical High School"}},
		}

		var buf bytes.Buffer
		RenderTable(&buf, result, Options{MaxWidth: 11})

		assert.Contains(t, buf.String(), "| Brooklyn... |")
	})

	t.Run("no columns", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		RenderTable(&buf, &model.Result{}, Options{})
		assert.Equal(t, "(no columns)\n", buf.String())
	})
}

func TestRenderCSV(t *testing.T) {
	t.Parallel()

	result := &model.Result{
		Columns: []string{"dbn", "school_name", "total_students"},
		Rows: []model.Row{
			{"01M292", "Henry Street School, for International Studies", int64(255)},
			{"01M448", nil, float64(1.5)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, result))

	want := "dbn,school_name,total_students\n" +
		"01M292,\"Henry Street School, for International Studies\",255\n" +
		"01M448,,1.5\n"
	assert.Equal(t, want, buf.String())
}

func Test_formatCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "NULL"},
		{"int", int64(42), "42"},
		{"float", float64(0.25), "0.25"},
		{"text bytes", []byte("Q"), "Q"},
		{"binary bytes", []byte{0, 1, 2}, "<blob 3 bytes>"},
		{"string", "X", "X"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatCell(tt.input))
		})
	}
}
