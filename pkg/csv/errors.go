// Package csv provides error types and recovery modes for CSV parsing.
package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-simplecsv/internal/parser"
)

// BadLineMode specifies how a Reader handles records that fail to tokenize.
type BadLineMode int

const (
	// BadLineModeError returns the error to the caller (default).
	BadLineModeError BadLineMode = iota
	// BadLineModeWarn reports the error through the warning callback and logger, then continues.
	BadLineModeWarn
	// BadLineModeSkip silently skips the record.
	BadLineModeSkip
)

// String returns the string representation of BadLineMode.
func (m BadLineMode) String() string {
	switch m {
	case BadLineModeError:
		return "error"
	case BadLineModeWarn:
		return "warn"
	case BadLineModeSkip:
		return "skip"
	default:
		return fmt.Sprintf("BadLineMode(%d)", m)
	}
}

// ParseBadLineMode converts "error", "warn" or "skip" to a BadLineMode.
func ParseBadLineMode(s string) (BadLineMode, error) {
	switch s {
	case "error":
		return BadLineModeError, nil
	case "warn":
		return BadLineModeWarn, nil
	case "skip":
		return BadLineModeSkip, nil
	default:
		return BadLineModeError, fmt.Errorf("csv: unknown bad line mode %q", s)
	}
}

// ParseError represents a parsing error with position information.
type ParseError struct {
	// StartLine is the line where the failing field started (1-indexed).
	StartLine int
	// Line is the last line read for the record (1-indexed).
	Line int
	// Column is the column where the failing field started (1-indexed, in characters).
	Column int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Common parsing errors
var (
	// ErrUnterminatedQuote indicates input ended inside a quoted field.
	ErrUnterminatedQuote = parser.ErrUnterminatedQuote

	// ErrRecordTooLong indicates a record spanned more than MaxRecordLines lines.
	ErrRecordTooLong = parser.ErrRecordTooLong

	// ErrClosed is returned by a Reader after Close.
	ErrClosed = errors.New("csv: reader closed")
)

// WarningHandler is a callback function for logging warnings.
type WarningHandler func(line int, message string)

// toParseError converts tokenizer line errors into *ParseError and passes
// other errors through unchanged.
func toParseError(err error) error {
	var lerr *parser.LineError
	if errors.As(err, &lerr) {
		return &ParseError{
			StartLine: lerr.StartLine,
			Line:      lerr.Line,
			Column:    lerr.Column,
			Err:       lerr.Err,
		}
	}
	return err
}
