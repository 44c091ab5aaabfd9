package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedQuote is reported when input ends inside a quoted region.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")

	// ErrRecordTooLong is reported when a record needs more physical lines than allowed.
	ErrRecordTooLong = errors.New("record spans too many lines")
)

// LineError is a record-level error with the physical lines involved.
type LineError struct {
	// StartLine is the line where the failing field started (1-indexed).
	StartLine int
	// Line is the last line read for the record (1-indexed).
	Line int
	// Column is the column where the failing field started (1-indexed, in characters).
	Column int
	// Err is ErrUnterminatedQuote or ErrRecordTooLong.
	Err error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (started line %d), column %d: %v", e.Line, e.StartLine, e.Column, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
