package table

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when an operation names a column the table does not have.
	ErrMissingColumn = errors.New("missing column")
	// ErrDuplicateColumn is returned when two columns would share a label.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrLengthMismatch is returned when column lengths disagree.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrRaggedRow is returned when a CSV row has more fields than the header.
	ErrRaggedRow = errors.New("row has more fields than header")
	// ErrEmptyInput is returned when a CSV source has no header row.
	ErrEmptyInput = errors.New("empty input")
)

// MissingColumnError names the absent column.
type MissingColumnError struct {
	Name string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Name)
}

// Unwrap lets errors.Is match ErrMissingColumn.
func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}
