package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	apperrors "dashboard-backend/internal/errors"
)

// ParseCSV reads a header row followed by records. Cells that parse as
// numbers become float64, empty cells become nil and everything else stays
// a string. Blank lines are skipped.
func ParseCSV(r io.Reader) ([]string, []Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, invalidCSV("file is empty", nil)
	}
	if err != nil {
		return nil, nil, invalidCSV("cannot read header", err)
	}

	headers := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			return nil, nil, invalidCSV(fmt.Sprintf("column %d has no name", i+1), nil)
		}
		if seen[name] {
			return nil, nil, invalidCSV(fmt.Sprintf("duplicate column `%s`", name), nil)
		}
		seen[name] = true
		headers[i] = name
	}

	rows := []Row{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, invalidCSV("cannot read record", err)
		}
		if isBlank(record) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = parseCell(record[i])
			} else {
				row[h] = nil
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func parseCell(cell string) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	// NaN and Inf spellings stay text: JSON has no encoding for them.
	if n, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n
	}
	return cell
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func invalidCSV(reason string, cause error) error {
	return apperrors.Validation(apperrors.CodeInvalidDataset, "Invalid CSV file: "+reason).
		WithCause(cause).
		Build()
}
