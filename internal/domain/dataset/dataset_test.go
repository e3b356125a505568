package dataset

import (
	"strings"
	"testing"
	"time"

	apperrors "dashboard-backend/internal/errors"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	t.Run("Should type numeric cells and keep text", func(t *testing.T) {
		input := "Week, Cases ,Region\n1,10,North\n2,9.5,South\n\n3,,East\n"

		headers, rows, err := ParseCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"Week", "Cases", "Region"}, headers)
		require.Len(t, rows, 3)
		assert.Equal(t, Row{"Week": 1.0, "Cases": 10.0, "Region": "North"}, rows[0])
		assert.Equal(t, 9.5, rows[1]["Cases"])
		assert.Nil(t, rows[2]["Cases"])
	})

	t.Run("Should pad short records", func(t *testing.T) {
		_, rows, err := ParseCSV(strings.NewReader("a,b\n1\n"))
		require.NoError(t, err)
		assert.Equal(t, Row{"a": 1.0, "b": nil}, rows[0])
	})

	t.Run("Should keep non-finite spellings as text", func(t *testing.T) {
		_, rows, err := ParseCSV(strings.NewReader("Region,Rate\nNorth,NaN\nSouth,Inf\nEast,-Inf\nWest,infinity\nMid,3\n"))
		require.NoError(t, err)

		assert.Equal(t, "NaN", rows[0]["Rate"])
		assert.Equal(t, "Inf", rows[1]["Rate"])
		assert.Equal(t, "-Inf", rows[2]["Rate"])
		assert.Equal(t, "infinity", rows[3]["Rate"])
		assert.Equal(t, 3.0, rows[4]["Rate"])
	})

	t.Run("Should reject duplicate headers", func(t *testing.T) {
		_, _, err := ParseCSV(strings.NewReader("a,a\n1,2\n"))
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("Should reject empty file", func(t *testing.T) {
		_, _, err := ParseCSV(strings.NewReader(""))
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestFilterColumns(t *testing.T) {
	rows := []Row{{"a": 1.0, "b": "x"}, {"a": 2.0, "b": "y"}}
	columns := []ColumnMetadata{{ColumnName: "b", Hidden: true}, {ColumnName: "a"}}

	filtered := FilterColumns(rows, columns)

	assert.Equal(t, []Row{{"a": 1.0}, {"a": 2.0}}, filtered)
	assert.Contains(t, rows[0], "b", "input rows must not be modified")
}

func TestSortRows(t *testing.T) {
	t.Run("Should compare numbers numerically", func(t *testing.T) {
		rows := []Row{{"n": 10.0}, {"n": 9.0}, {"n": 100.0}}
		SortRows(rows, "n", false)
		assert.Equal(t, []any{9.0, 10.0, 100.0}, column(rows, "n"))
	})

	t.Run("Should compare mixed values as strings", func(t *testing.T) {
		rows := []Row{{"v": "b"}, {"v": 10.0}, {"v": "a"}}
		SortRows(rows, "v", false)
		assert.Equal(t, []any{10.0, "a", "b"}, column(rows, "v"))
	})

	t.Run("Should sort descending with missing values last", func(t *testing.T) {
		rows := []Row{{"n": nil}, {"n": 1.0}, {"n": 3.0}}
		SortRows(rows, "n", true)
		assert.Equal(t, []any{3.0, 1.0, nil}, column(rows, "n"))
	})

	t.Run("Should keep order without a sort column", func(t *testing.T) {
		rows := []Row{{"n": 2.0}, {"n": 1.0}}
		SortRows(rows, "", false)
		assert.Equal(t, []any{2.0, 1.0}, column(rows, "n"))
	})
}

func TestSortRows_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Numeric sort is ordered and keeps every row", prop.ForAll(
		func(values []float64, desc bool) bool {
			rows := make([]Row, len(values))
			for i, v := range values {
				rows[i] = Row{"n": v}
			}
			SortRows(rows, "n", desc)
			if len(rows) != len(values) {
				return false
			}
			for i := 1; i < len(rows); i++ {
				prev, cur := rows[i-1]["n"].(float64), rows[i]["n"].(float64)
				if (!desc && prev > cur) || (desc && prev < cur) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestPrepare(t *testing.T) {
	rows := []Row{{"name": "b", "score": 2.0}, {"name": "a", "score": 1.0}}
	columns := []ColumnMetadata{{ColumnName: "score", Hidden: true}}

	prepared := Prepare(rows, columns, "score", false)

	assert.Equal(t, []Row{{"name": "a"}, {"name": "b"}}, prepared)
	assert.Equal(t, "b", rows[0]["name"])
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		meta     ColumnMetadata
		expected string
	}{
		{"nil", nil, ColumnMetadata{}, ""},
		{"text", "North", ColumnMetadata{DataType: DataTypeText}, "North"},
		{"grouped integer", 1234567.0, ColumnMetadata{DataType: DataTypeNumber}, "1,234,567"},
		{"decimal", 1234.25, ColumnMetadata{DataType: DataTypeNumber}, "1,234.25"},
		{"percentage", 12.5, ColumnMetadata{DataType: DataTypeNumber, NumberType: NumberTypePercentage}, "12.5%"},
		{"currency", 1234.5, ColumnMetadata{DataType: DataTypeNumber, NumberType: NumberTypeCurrency, CurrencyType: "Euro €"}, "€1,234.50"},
		{"negative currency", -5.0, ColumnMetadata{NumberType: NumberTypeCurrency}, "-$5.00"},
		{"number declared as text", 42.0, ColumnMetadata{DataType: DataTypeText}, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value, tt.meta))
		})
	}
}

func TestInferColumns(t *testing.T) {
	rows := []Row{{"a": 1.0, "b": "x", "c": nil}, {"a": nil, "b": 2.0, "c": nil}}

	columns := InferColumns([]string{"a", "b", "c"}, rows)

	require.Len(t, columns, 3)
	assert.Equal(t, ColumnMetadata{ColumnName: "a", DataType: DataTypeNumber, NumberType: NumberTypeNumber}, columns[0])
	assert.Equal(t, DataTypeText, columns[1].DataType)
	assert.Equal(t, DataTypeText, columns[2].DataType)

	meta, ok := MetadataFor(columns, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", meta.ColumnName)
}

func TestNew_DefaultsToStatic(t *testing.T) {
	d := New("cases.csv", S3Key{Raw: "raw/x.csv", JSON: "json/x.json"}, "", "alice", time.Now())
	assert.Equal(t, TypeStatic, d.DatasetType)
	assert.NotEmpty(t, d.ID)
}

func column(rows []Row, name string) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r[name]
	}
	return out
}

func TestFormatRows(t *testing.T) {
	rows := []Row{{"Cases": 1234.5, "Region": "North"}}
	columns := []ColumnMetadata{{ColumnName: "Cases", DataType: DataTypeNumber, NumberType: NumberTypeCurrency, CurrencyType: "$"}}

	out := FormatRows(rows, columns)

	assert.Equal(t, Row{"Cases": "$1,234.50", "Region": "North"}, out[0])
	assert.Equal(t, 1234.5, rows[0]["Cases"])
}
