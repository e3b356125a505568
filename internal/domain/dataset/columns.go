package dataset

// DataType is the declared kind of a column's values.
type DataType string

const (
	DataTypeText   DataType = "Text"
	DataTypeNumber DataType = "Number"
	DataTypeDate   DataType = "Date"
)

// NumberType refines how a numeric column is displayed.
type NumberType string

const (
	NumberTypeNumber     NumberType = "Number"
	NumberTypePercentage NumberType = "Percentage"
	NumberTypeCurrency   NumberType = "Currency"
)

// ColumnMetadata is the per-column display configuration a chart or table
// widget stores alongside its dataset reference.
type ColumnMetadata struct {
	ColumnName   string     `json:"columnName" validate:"required"`
	Hidden       bool       `json:"hidden"`
	DataType     DataType   `json:"dataType,omitempty" validate:"omitempty,oneof=Text Number Date"`
	NumberType   NumberType `json:"numberType,omitempty" validate:"omitempty,oneof=Number Percentage Currency"`
	CurrencyType string     `json:"currencyType,omitempty"`
}

// Row is one parsed record keyed by column name.
type Row map[string]any

// MetadataFor returns the metadata of column, if configured.
func MetadataFor(columns []ColumnMetadata, column string) (ColumnMetadata, bool) {
	for _, c := range columns {
		if c.ColumnName == column {
			return c, true
		}
	}
	return ColumnMetadata{}, false
}

// FilterColumns returns copies of rows without the hidden columns.
func FilterColumns(rows []Row, columns []ColumnMetadata) []Row {
	hidden := make(map[string]bool)
	for _, c := range columns {
		if c.Hidden {
			hidden[c.ColumnName] = true
		}
	}

	out := make([]Row, len(rows))
	for i, row := range rows {
		filtered := make(Row, len(row))
		for k, v := range row {
			if !hidden[k] {
				filtered[k] = v
			}
		}
		out[i] = filtered
	}
	return out
}

// InferColumns proposes metadata for headers: a column whose non-empty
// values are all numbers is a Number column, anything else is Text.
func InferColumns(headers []string, rows []Row) []ColumnMetadata {
	columns := make([]ColumnMetadata, 0, len(headers))
	for _, h := range headers {
		dataType := DataTypeNumber
		seen := false
		for _, row := range rows {
			v, ok := row[h]
			if !ok || v == nil {
				continue
			}
			seen = true
			if _, isNum := v.(float64); !isNum {
				dataType = DataTypeText
				break
			}
		}
		if !seen {
			dataType = DataTypeText
		}
		meta := ColumnMetadata{ColumnName: h, DataType: dataType}
		if dataType == DataTypeNumber {
			meta.NumberType = NumberTypeNumber
		}
		columns = append(columns, meta)
	}
	return columns
}
