// Package parser turns comma-separated running logs into validated rows.
//
// Data rows are bound by position: field 0 is the date, field 1 the person and
// field 2 the miles. Header names are only checked for presence, so a header
// that lists the required columns in another order still reads data
// positionally.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/verte-zerg/runboard/internal/model"
)

const (
	columnDate   = "date"
	columnPerson = "person"
	columnMiles  = "miles run"
)

const (
	fieldDate   = "date"
	fieldPerson = "person"
	fieldMiles  = "miles"
)

const byteOrderMark = "\ufeff"

var requiredColumns = []string{columnDate, columnPerson, columnMiles}

// decimalPattern admits plain decimal numerals, not Go literal forms such as
// 0x1p3 or 1_0.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

const (
	reasonInvalidDate   = "Invalid date"
	reasonEmptyPerson   = "Person name is empty"
	reasonInvalidMiles  = "Invalid miles value"
	reasonNegativeMiles = "Miles cannot be negative"
)

// Parse validates text and returns its rows in input order.
// The first failure aborts the parse; no partial dataset is returned.
func Parse(text string) (model.Dataset, error) {
	text = strings.TrimPrefix(text, byteOrderMark)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, &StructuralError{Lines: len(lines)}
	}
	if err := checkHeader(lines[0]); err != nil {
		return nil, err
	}
	return parseRows(lines[1:], 2)
}

func checkHeader(line string) error {
	headers := make(map[string]struct{})
	for _, h := range strings.Split(line, ",") {
		headers[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	for _, col := range requiredColumns {
		if _, ok := headers[col]; !ok {
			return &SchemaError{Column: col}
		}
	}
	return nil
}

// parseRows validates data lines; firstLine is the 1-based number of lines[0].
func parseRows(lines []string, firstLine int) (model.Dataset, error) {
	rows := make(model.Dataset, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		row, err := parseRow(line, firstLine+i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &EmptyResultError{}
	}
	return rows, nil
}

func parseRow(line string, lineNo int) (model.Row, error) {
	values := strings.Split(line, ",")
	dateStr := field(values, 0)
	person := field(values, 1)
	milesStr := field(values, 2)

	if _, ok := ParseDate(dateStr); !ok {
		return model.Row{}, &RowError{Line: lineNo, Field: fieldDate, Value: dateStr, Reason: reasonInvalidDate}
	}
	if person == "" {
		return model.Row{}, &RowError{Line: lineNo, Field: fieldPerson, Value: person, Reason: reasonEmptyPerson}
	}
	if !decimalPattern.MatchString(milesStr) {
		return model.Row{}, &RowError{Line: lineNo, Field: fieldMiles, Value: milesStr, Reason: reasonInvalidMiles}
	}
	miles, err := strconv.ParseFloat(milesStr, 64)
	if err != nil || math.IsNaN(miles) || math.IsInf(miles, 0) {
		return model.Row{}, &RowError{Line: lineNo, Field: fieldMiles, Value: milesStr, Reason: reasonInvalidMiles}
	}
	if miles < 0 {
		return model.Row{}, &RowError{Line: lineNo, Field: fieldMiles, Value: milesStr, Reason: reasonNegativeMiles}
	}
	return model.Row{Date: dateStr, Person: person, Miles: miles}, nil
}

func field(values []string, idx int) string {
	if idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}
