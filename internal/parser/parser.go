// Package parser splits physical lines into fields.
//
// A separator ends a field only outside quoted regions. Every quote
// character that is not escaped toggles the quoted state, wherever it
// appears in the field, so doubled quotes are kept as data. A line that
// ends inside a quoted region continues on the next physical line; the
// caller passes the returned Pending back to Parse with that line.
package parser

import (
	"strings"
	"unicode/utf8"
)

// Parser tokenizes lines with a fixed set of Options.
// It holds no per-line state and is safe for concurrent use.
type Parser struct {
	opts Options
	pol  policy
}

// NewParser creates a Parser. The options must already be validated.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts, pol: newPolicy(opts)}
}

// Options returns the options the parser was built with.
func (p *Parser) Options() Options {
	return p.opts
}

// ParseLine tokenizes a single line. A line that ends inside a quoted
// region returns ErrUnterminatedQuote unless AllowUnbalancedQuotes is set.
func (p *Parser) ParseLine(line string) ([]string, error) {
	fields, pending := p.Parse(line, nil)
	if pending != nil {
		pending.release()
		return nil, ErrUnterminatedQuote
	}
	return fields, nil
}

// Parse tokenizes line, continuing pending when it is non-nil. When the
// line ends inside a quoted region (and AllowUnbalancedQuotes is not set)
// it returns a non-nil Pending and no fields. Resuming joins the lines
// with "\n".
func (p *Parser) Parse(line string, pending *Pending) ([]string, *Pending) {
	st := pending
	if st == nil {
		st = newPending()
	} else {
		st.lines++
		p.feed(st, '\n', "\n", 0)
	}

	col := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		col++
		p.feed(st, r, line[i:i+size], col)
		i += size
	}

	f := &st.field
	if f.inQuotes && !p.pol.closeAtEOL {
		return nil, st
	}
	if f.inEscape {
		// Nothing left to escape.
		f.inEscape = false
		p.appendData(f, string(p.opts.EscapeChar))
	}
	st.fields = append(st.fields, p.finish(f))

	fields := st.fields
	st.release()
	return fields, nil
}

// feed advances the state machine by one character. raw holds the bytes
// r was decoded from; a byte that is not valid UTF-8 arrives as
// utf8.RuneError with a one-byte raw and is always data. col is the 1-based
// column of r on its physical line, or 0 for the joining newline.
func (p *Parser) feed(st *Pending, r rune, raw string, col int) {
	f := &st.field
	if f.column == 0 && col > 0 {
		f.column = col
		f.line = st.lines - 1
	}

	if f.inEscape {
		f.inEscape = false
		p.appendEscaped(f, r, raw)
		return
	}

	switch {
	case r == utf8.RuneError && len(raw) == 1:
		p.begin(f, false)
		p.appendData(f, raw)
	case p.pol.escaping && r == p.opts.EscapeChar:
		p.begin(f, false)
		f.inEscape = true
	case p.pol.quoting && r == p.opts.QuoteChar:
		p.begin(f, true)
		p.toggle(f, r)
	case r == p.opts.Separator && !f.inQuotes:
		st.fields = append(st.fields, p.finish(f))
		f.reset()
	case !f.started && isSpace(r):
		f.leading = append(f.leading, raw...)
	default:
		p.begin(f, false)
		p.appendData(f, raw)
	}
}

// begin marks the field as started by its first non-whitespace character.
func (p *Parser) begin(f *field, quoted bool) {
	if f.started {
		return
	}
	f.started = true
	f.quoted = quoted
	if p.pol.flushLeading {
		f.buf = append(f.buf, f.leading...)
	}
	f.leading = f.leading[:0]
}

func (p *Parser) toggle(f *field, quote rune) {
	f.inQuotes = !f.inQuotes
	if f.inQuotes {
		f.region = true
	}
	if p.pol.strict {
		return
	}
	if f.quoted && f.openAt < 0 {
		f.openAt = len(f.buf)
	}
	f.lastToggle = len(f.buf)
	f.buf = utf8.AppendRune(f.buf, quote)
}

func (p *Parser) appendData(f *field, raw string) {
	if p.pol.strict && !f.inQuotes {
		return
	}
	f.buf = append(f.buf, raw...)
}

func (p *Parser) appendEscaped(f *field, r rune, raw string) {
	if p.pol.strict && !f.inQuotes {
		return
	}
	if p.pol.decodeEscapes {
		if d, ok := decodeEscape(r); ok {
			f.buf = append(f.buf, d)
			return
		}
		f.buf = append(f.buf, raw...)
		return
	}
	f.buf = utf8.AppendRune(f.buf, p.opts.EscapeChar)
	f.buf = append(f.buf, raw...)
}

// finish produces the output value of the current field.
func (p *Parser) finish(f *field) string {
	var s string
	switch {
	case p.pol.strict:
		s = p.trim(string(f.buf))
		if f.region && p.pol.keepOuter {
			s = p.wrap(s)
		}
		return s
	case !f.started:
		// Whitespace-only fields are kept verbatim, even when trimming.
		s = string(f.leading)
		if p.pol.wrapUnquoted && s != "" {
			s = p.wrap(s)
		}
		return s
	case f.quoted && !p.pol.keepOuter:
		s = stripOuter(f.buf, f.openAt, f.lastToggle, utf8.RuneLen(p.opts.QuoteChar))
	default:
		s = string(f.buf)
	}

	s = p.trim(s)
	if p.pol.wrapUnquoted && !f.quoted && s != "" {
		s = p.wrap(s)
	}
	return s
}

func (p *Parser) trim(s string) string {
	if p.pol.trim {
		return strings.TrimFunc(s, isSpace)
	}
	return s
}

// isSpace reports whether r is a space or an ASCII control character.
// Both leading whitespace and trimming use it.
func isSpace(r rune) bool {
	return r >= 0 && r <= ' '
}

func (p *Parser) wrap(s string) string {
	q := string(p.opts.QuoteChar)
	return q + s + q
}

// stripOuter drops the width-byte quotes at open and last (which may be the
// same offset).
func stripOuter(buf []byte, open, last, width int) string {
	var b strings.Builder
	b.Grow(len(buf))
	b.Write(buf[:open])
	if last > open {
		b.Write(buf[open+width : last])
		b.Write(buf[last+width:])
	} else {
		b.Write(buf[open+width:])
	}
	return b.String()
}

// decodeEscape maps the character after an escape to the byte it stands for.
// ok is false for characters that stand for themselves.
func decodeEscape(r rune) (byte, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}
