package tokenizer

import (
	"io"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer that emits one TokenLine per run of
// non-terminator characters and one TokenNewline per line terminator.
//
// Matchers are tried in order:
// 1. \r\n (before the single-character terminators so it is matched as one)
// 2. \n
// 3. \r
// 4. Line content
//
// An empty line therefore shows up as a TokenNewline with no TokenLine before it.
func NewTokenizer() tokenizer.Tokenizer {
	return newTokenizer(LineContentMatcher())
}

func newTokenizer(content tokenizer.Matcher) tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		tokenizer.StringMatcherFunc(TokenNewline, "\r\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\r"),
		content,
	)
}

// NewTokenizerWithStream creates a line tokenizer using a pre-configured stream.
// This is used to support streaming from io.Reader.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// LineContentMatcher matches a run of characters up to, but not including,
// the next CR or LF.
//
// Performance: Uses ByteStream for fast scanning when available. CR and LF
// are ASCII, so the byte path never splits a multi-byte character.
func LineContentMatcher() tokenizer.Matcher {
	return lineContentMatcher(nil)
}

// lineContentMatcher stores the matched bytes in raw, when it is non-nil,
// so that bytes which are not valid UTF-8 reach the caller unchanged.
// The rune path leaves raw untouched.
func lineContentMatcher(raw *rawLine) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if byteStream, ok := stream.(tokenizer.ByteStream); ok {
			return lineContentMatcherByte(byteStream, raw)
		}
		return lineContentMatcherRune(stream)
	}
}

// rawLine is the byte content of the last line matched on the byte path.
type rawLine struct {
	value string
	ok    bool
}

func lineContentMatcherByte(stream tokenizer.ByteStream, raw *rawLine) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok || b == '\n' || b == '\r' {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := string(stream.SliceFrom(startPos))
	if raw != nil {
		raw.value, raw.ok = value, true
	}
	return tokenizer.NewToken(TokenLine, []rune(value))
}

func lineContentMatcherRune(stream tokenizer.Stream) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok || r == '\n' || r == '\r' {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenLine, value)
}

// LineScanner pulls physical lines out of a character stream.
// Terminators are consumed and never part of the returned line.
// A terminator at the very end of the input does not produce an extra empty line.
type LineScanner struct {
	tok   tokenizer.Tokenizer
	raw   rawLine
	lines int
	done  bool
}

// NewLineScanner creates a LineScanner reading from stream.
func NewLineScanner(stream tokenizer.Stream) *LineScanner {
	s := &LineScanner{}
	s.tok = newTokenizer(lineContentMatcher(&s.raw))
	s.tok.InitializeFromStream(stream)
	return s
}

// NewLineScannerFromString creates a LineScanner over an in-memory string.
func NewLineScannerFromString(input string) *LineScanner {
	return NewLineScanner(tokenizer.NewStream(input))
}

// NewLineScannerFromReader creates a LineScanner with buffered reads from r.
func NewLineScannerFromReader(r io.Reader) *LineScanner {
	return NewLineScanner(tokenizer.NewStreamFromReader(r))
}

// NextLine returns the next physical line, or io.EOF once the input is exhausted.
func (s *LineScanner) NextLine() (string, error) {
	if s.done {
		return "", io.EOF
	}

	s.raw = rawLine{}
	token, ok := s.tok.NextToken()
	if !ok {
		s.done = true
		return "", io.EOF
	}

	switch token.Kind() {
	case TokenNewline:
		s.lines++
		return "", nil
	case TokenLine:
		line := token.ValueString()
		if s.raw.ok {
			line = s.raw.value
		}
		// Content stops at a terminator or at end of input; consume the terminator.
		if _, ok := s.tok.NextToken(); !ok {
			s.done = true
		}
		s.lines++
		return line, nil
	default:
		s.done = true
		return "", io.EOF
	}
}

// Lines returns the number of physical lines returned so far.
func (s *LineScanner) Lines() int {
	return s.lines
}
