package dataset

import (
	"cmp"
	"fmt"
	"slices"
)

// SortRows sorts rows in place by column. Two numbers compare numerically,
// anything else compares by its string form. Missing values sort first in
// ascending order. The sort is stable.
func SortRows(rows []Row, column string, desc bool) {
	if column == "" {
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := compareValues(a[column], b[column])
		if desc {
			return -c
		}
		return c
	})
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	an, aNum := a.(float64)
	bn, bNum := b.(float64)
	if aNum && bNum {
		return cmp.Compare(an, bn)
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Prepare shapes rows for rendering: sorted by sortBy, then stripped of
// hidden columns. The input is not modified.
func Prepare(rows []Row, columns []ColumnMetadata, sortBy string, desc bool) []Row {
	sorted := slices.Clone(rows)
	SortRows(sorted, sortBy, desc)
	return FilterColumns(sorted, columns)
}
