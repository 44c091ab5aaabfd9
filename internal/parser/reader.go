package parser

import (
	"errors"
	"io"
	"log/slog"
)

// LineSource supplies physical lines without their terminators.
// NextLine returns io.EOF when there are no more lines.
type LineSource interface {
	NextLine() (string, error)
}

// ReaderOptions configures a SpanningReader.
type ReaderOptions struct {
	// MaxRecordLines caps the physical lines a record may span. 0 means no limit.
	MaxRecordLines int
	// Logger receives debug records for continuation lines. Nil discards them.
	Logger *slog.Logger
}

// SpanningReader assembles records from a LineSource, joining physical
// lines while a quoted field is open.
type SpanningReader struct {
	parser *Parser
	src    LineSource
	opts   ReaderOptions
	logger *slog.Logger
	line   int
	eof    bool
}

// NewSpanningReader creates a reader that tokenizes lines from src with p.
func NewSpanningReader(p *Parser, src LineSource, opts ReaderOptions) *SpanningReader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SpanningReader{parser: p, src: src, opts: opts, logger: logger}
}

// Line returns the number of physical lines consumed so far.
func (r *SpanningReader) Line() int {
	return r.line
}

// Skip consumes up to n physical lines without tokenizing them.
// Reaching the end of input is not an error.
func (r *SpanningReader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.readLine(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Next returns the next record, or io.EOF when the source is exhausted.
//
// A record whose quoted field is still open when the source ends fails
// with a *LineError wrapping ErrUnterminatedQuote. A record that would
// need more than MaxRecordLines lines fails with ErrRecordTooLong; the
// lines read so far are dropped and the next call starts on a fresh line.
func (r *SpanningReader) Next() ([]string, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	start := r.line

	fields, pending := r.parser.Parse(line, nil)
	for pending != nil {
		if r.opts.MaxRecordLines > 0 && pending.Lines() >= r.opts.MaxRecordLines {
			return nil, r.fail(start, pending, ErrRecordTooLong)
		}

		line, err = r.readLine()
		if errors.Is(err, io.EOF) {
			return nil, r.fail(start, pending, ErrUnterminatedQuote)
		}
		if err != nil {
			pending.release()
			return nil, err
		}

		r.logger.Debug("quoted field continues", "start_line", start, "line", r.line)
		fields, pending = r.parser.Parse(line, pending)
	}
	return fields, nil
}

func (r *SpanningReader) readLine() (string, error) {
	if r.eof {
		return "", io.EOF
	}
	line, err := r.src.NextLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.eof = true
		}
		return "", err
	}
	r.line++
	return line, nil
}

func (r *SpanningReader) fail(start int, pending *Pending, err error) error {
	lerr := &LineError{
		StartLine: start + pending.FieldLine(),
		Line:      r.line,
		Column:    pending.Column(),
		Err:       err,
	}
	pending.release()
	return lerr
}
