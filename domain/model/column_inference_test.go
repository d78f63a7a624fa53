package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected ColumnType
	}{
		{name: "all integers", values: []string{"123", "456", "789"}, expected: ColumnTypeInteger},
		{name: "mixed integers and floats", values: []string{"123", "45.6", "789"}, expected: ColumnTypeReal},
		{name: "mixed numbers and text", values: []string{"123", "hello", "789"}, expected: ColumnTypeText},
		{name: "empty values", values: []string{"", "", ""}, expected: ColumnTypeText},
		{name: "no values", values: nil, expected: ColumnTypeText},
		{name: "integers with empty values", values: []string{"123", "", "789"}, expected: ColumnTypeInteger},
		{name: "integers with null markers", values: []string{"12", "NA", "N/A", "NaN", "null", "7"}, expected: ColumnTypeInteger},
		{name: "suppressed counts are text", values: []string{"29", "s", "91"}, expected: ColumnTypeText},
		{name: "scientific notation", values: []string{"1e10", "2.5e-3", "3.14e2"}, expected: ColumnTypeReal},
		{name: "padded whitespace", values: []string{" 1", "2 ", " 3 "}, expected: ColumnTypeInteger},
		{name: "ISO8601 dates", values: []string{"2023-01-15", "2023-02-20"}, expected: ColumnTypeDatetime},
		{name: "datetime with timezone", values: []string{"2023-01-15T10:30:00Z", "2023-02-20T14:45:30+09:00"}, expected: ColumnTypeDatetime},
		{name: "mixed datetime and text", values: []string{"2023-01-15", "not a date"}, expected: ColumnTypeText},
		{name: "mixed datetime and numbers", values: []string{"2023-01-15", "42"}, expected: ColumnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, InferColumnType(tt.values))
		})
	}
}

func TestInferColumnsInfo(t *testing.T) {
	t.Parallel()

	t.Run("high school columns", func(t *testing.T) {
		t.Parallel()

		header := Header{"dbn", "school_name", "boro", "total_students", "graduation_rate"}
		records := []Record{
			{"01M292", "Henry Street School", "M", "323", "0.62"},
			{"13K430", "Brooklyn Tech", "K", "5958", ""},
			{"10X445", "Bronx Science", "X"},
		}

		got := InferColumnsInfo(header, records)
		assert.Equal(t, []ColumnInfo{
			{Name: "dbn", Type: ColumnTypeText},
			{Name: "school_name", Type: ColumnTypeText},
			{Name: "boro", Type: ColumnTypeText},
			{Name: "total_students", Type: ColumnTypeInteger},
			{Name: "graduation_rate", Type: ColumnTypeReal},
		}, got)
	})

	t.Run("no records defaults to text", func(t *testing.T) {
		t.Parallel()

		got := InferColumnsInfo(Header{"a", "b"}, nil)
		require.Len(t, got, 2)
		for _, col := range got {
			assert.Equal(t, ColumnTypeText, col.Type)
		}
	})

	t.Run("no header", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, InferColumnsInfo(nil, []Record{{"1"}}))
	})
}

func TestIsDatetime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		expected bool
	}{
		{"2023-01-15", true},
		{"2023-01-15T10:30:00", true},
		{"2023-01-15T10:30:00.123", true},
		{"1/15/2023", true},
		{"15.1.2023 10:30:00", true},
		{"10:30", true},
		{"10:30:00.123", true},
		{"hello world", false},
		{"123", false},
		{"2023-13-45", false},
		{"25:70:90", false},
		{"", false},
		{"Jan 15, 2023", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isDatetime(tt.value))
		})
	}
}

func TestIsNull(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"", "  ", "NA", "N/A", "n/a", "#N/A", "<NA>", "NULL", "null", "NaN", "nan", "-NaN", "None"} {
		assert.True(t, IsNull(v), "%q should be null", v)
	}
	for _, v := range []string{"0", "none", "K", "s", "na"} {
		assert.False(t, IsNull(v), "%q should not be null", v)
	}
}

func TestConvertValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		ct       ColumnType
		expected any
	}{
		{name: "integer", value: "427", ct: ColumnTypeInteger, expected: int64(427)},
		{name: "integer with spaces", value: " 12 ", ct: ColumnTypeInteger, expected: int64(12)},
		{name: "real", value: "0.5", ct: ColumnTypeReal, expected: 0.5},
		{name: "real from integer text", value: "3", ct: ColumnTypeReal, expected: float64(3)},
		{name: "text kept verbatim", value: " Q ", ct: ColumnTypeText, expected: " Q "},
		{name: "datetime trimmed", value: " 2023-01-15 ", ct: ColumnTypeDatetime, expected: "2023-01-15"},
		{name: "empty is null", value: "", ct: ColumnTypeInteger, expected: nil},
		{name: "marker is null in text column", value: "NA", ct: ColumnTypeText, expected: nil},
		{name: "unparsable integer kept as text", value: "x", ct: ColumnTypeInteger, expected: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ConvertValue(tt.value, tt.ct))
		})
	}
}

func TestValidateColumnNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		columns []string
		wantErr bool
	}{
		{"distinct", []string{"dbn", "boro", "total_students"}, false},
		{"leading space is a different name", []string{" dbn", "dbn"}, false},
		{"exact duplicate", []string{"dbn", "boro", "dbn"}, true},
		{"case-insensitive duplicate", []string{"DBN", "dbn"}, true},
		{"mixed case duplicate", []string{"dbn", "boro", "Boro"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateColumnNames(tt.columns)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDuplicateColumnName)
		})
	}
}
