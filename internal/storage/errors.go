package storage

import (
	"fmt"
	"strings"
)

// SchemaError reports a data file whose header row is missing required columns.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// RecordParseError reports a row that could not be parsed into a record. Line
// is the 1-based line number in a CSV file, or the 1-based record ordinal in a
// bundle document.
type RecordParseError struct {
	Err  error
	Path string
	Line int
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("failed to parse record in %s (line %d): %v", e.Path, e.Line, e.Err)
}

func (e *RecordParseError) Unwrap() error {
	return e.Err
}
