package parser

import (
	"errors"
	"fmt"
)

// Boundary errors returned by LoadAndParse before any text is parsed.
var (
	ErrNotCSV   = errors.New("please provide a CSV file")
	ErrTooLarge = errors.New("file is too large")
)

// ErrorKind classifies parse failures.
type ErrorKind string

const (
	KindStructural ErrorKind = "structural"
	KindSchema     ErrorKind = "schema"
	KindRow        ErrorKind = "row"
	KindEmpty      ErrorKind = "empty"
)

// StructuralError reports input with fewer than a header and one data line.
type StructuralError struct {
	Lines int
}

func (e *StructuralError) Error() string {
	return "CSV must have at least header and one data row"
}

// SchemaError reports a required header column that is absent.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("Missing %q column in CSV", e.Column)
}

// RowError reports the first data row that failed validation.
// Value carries the offending token even when the message omits it.
type RowError struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *RowError) Error() string {
	switch {
	case e.Field == fieldPerson, e.Reason == reasonNegativeMiles:
		return fmt.Sprintf("Row %d: %s", e.Line, e.Reason)
	default:
		return fmt.Sprintf("Row %d: %s %q", e.Line, e.Reason, e.Value)
	}
}

// EmptyResultError reports structurally valid input without usable rows.
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "No valid data found in CSV"
}

// KindOf returns the parse error kind for err, or "" if err is not a parse error.
func KindOf(err error) ErrorKind {
	var (
		structural *StructuralError
		schema     *SchemaError
		row        *RowError
		empty      *EmptyResultError
	)
	switch {
	case errors.As(err, &structural):
		return KindStructural
	case errors.As(err, &schema):
		return KindSchema
	case errors.As(err, &row):
		return KindRow
	case errors.As(err, &empty):
		return KindEmpty
	default:
		return ""
	}
}

// IsKind reports whether err is a parse error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return kind != "" && KindOf(err) == kind
}
