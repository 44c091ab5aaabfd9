// Package tokenizer splits character input into physical lines using Shape's tokenizer framework.
package tokenizer

// Token type constants for physical line scanning.
//
// The tokenizer does not know about separators, quotes or escapes. It only
// finds line terminators; field tokenizing happens one line at a time in
// the parser package.
const (
	// TokenLine is the content of a physical line, without its terminator.
	TokenLine = "Line"

	// TokenNewline is a line terminator: \r\n, \n or a lone \r.
	TokenNewline = "Newline"

	// TokenEOF marks the end of input.
	TokenEOF = "EOF"
)
