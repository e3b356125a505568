package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatValue renders v for display according to its column metadata.
func FormatValue(v any, meta ColumnMetadata) string {
	if v == nil {
		return ""
	}
	n, ok := v.(float64)
	if !ok || meta.DataType == DataTypeText || meta.DataType == DataTypeDate {
		return fmt.Sprint(v)
	}

	switch meta.NumberType {
	case NumberTypePercentage:
		return formatNumber(n, decimals(n)) + "%"
	case NumberTypeCurrency:
		symbol := currencySymbol(meta.CurrencyType)
		if n < 0 {
			return "-" + symbol + formatNumber(-n, 2)
		}
		return symbol + formatNumber(n, 2)
	default:
		return formatNumber(n, decimals(n))
	}
}

func formatNumber(n float64, places int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", places), n)
}

// decimals is the number of fraction digits needed to show n exactly.
func decimals(n float64) int {
	if n == math.Trunc(n) {
		return 0
	}
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// currencySymbol accepts either a bare symbol or a labelled one such as
// "Dollar $".
func currencySymbol(currencyType string) string {
	fields := strings.Fields(currencyType)
	if len(fields) == 0 {
		return "$"
	}
	return fields[len(fields)-1]
}

// FormatRows returns copies of rows with every configured column rendered
// through FormatValue. Columns without metadata keep their raw value.
func FormatRows(rows []Row, columns []ColumnMetadata) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		formatted := make(Row, len(row))
		for k, v := range row {
			if meta, ok := MetadataFor(columns, k); ok {
				formatted[k] = FormatValue(v, meta)
				continue
			}
			formatted[k] = v
		}
		out[i] = formatted
	}
	return out
}
